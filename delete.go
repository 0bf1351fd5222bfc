package haku

import (
	"context"

	"github.com/hakuorm/haku/clause"
	"github.com/hakuorm/haku/schema"
)

// Delete soft delete the row of pk, or remove it when force is set or the model is not
// soft deleteable; a nil pk targets the model's own row
func (m *Model) Delete(ctx context.Context, pk any, force bool) error {
	if pk == nil {
		pk = m.PrimaryKey()
	}
	if !isKey(pk) {
		return m.error("delete", ErrNotPersistent)
	}

	var (
		write = m.writer()
		where = m.primaryKeyCondition(pk)
		now   = m.db.NowFunc()
		soft  = m.IsSoftDeleteable() && !force
		stmt  clause.Statement
		err   error
	)
	if soft {
		stmt, err = write.SoftDelete(where, now)
	} else {
		stmt, err = write.Delete(where)
	}
	if err != nil {
		return m.error("delete", err)
	}

	rows, err := m.db.Exec(ctx, stmt)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRecordNotFound
	}

	if soft && sameKey(pk, m.PrimaryKey()) {
		return m.bindings[schema.SoftDeleteFieldName].Set(now)
	}
	return nil
}

// Restore clear deletedAt of a soft deleted, persistent model and refresh it
func (m *Model) Restore(ctx context.Context) error {
	if !m.IsSoftDeleteable() {
		return m.error("restore", ErrNotSoftDeleteable)
	}
	if !m.IsPersistent() {
		return m.error("restore", ErrNotPersistent)
	}

	pk := m.PrimaryKey()
	stmt, err := m.writer().Restore(m.primaryKeyCondition(pk))
	if err != nil {
		return m.error("restore", err)
	}
	if _, err := m.db.Exec(ctx, stmt); err != nil {
		return err
	}
	return m.refresh(ctx, pk)
}
