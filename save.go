package haku

import (
	"context"

	"github.com/hakuorm/haku/builder"
	"github.com/hakuorm/haku/schema"
	"github.com/hakuorm/haku/utils"
)

// SaveOptions save behaviour
type SaveOptions struct {
	// IgnoreValidation save without a successful Validate
	IgnoreValidation bool
	// Fields restrict the written fields, all persisted fields when empty
	Fields []string
}

// Save insert a transient model or update a persistent one, then refresh it from its row
func (m *Model) Save(ctx context.Context, opts SaveOptions) error {
	if !opts.IgnoreValidation && !m.valid {
		return m.error("save", ErrNotValidated)
	}

	persistent := m.IsPersistent()
	record, err := m.outbound(opts.Fields)
	if err != nil {
		return m.error("save", err)
	}

	now := m.db.NowFunc()
	if m.schema.FieldsByName[schema.UpdatedAtFieldName] != nil {
		record[schema.UpdatedAtFieldName] = now
	}
	if !persistent && m.schema.FieldsByName[schema.CreatedAtFieldName] != nil {
		record[schema.CreatedAtFieldName] = now
	}

	write := m.writer()
	values := schema.UnmarshalRecord(record)

	if persistent {
		pk := m.PrimaryKey()
		stmt, err := write.Update(values, m.primaryKeyCondition(pk))
		if err != nil {
			return m.error("save", err)
		}
		if _, err := m.db.Exec(ctx, stmt); err != nil {
			return err
		}
		return m.refresh(ctx, pk)
	}

	write.SkipNull = true
	stmt, err := write.Insert(values)
	if err != nil {
		return m.error("save", err)
	}
	if _, err := m.db.Exec(ctx, stmt); err != nil {
		return err
	}

	id, err := m.db.lastInsertID(ctx)
	if err != nil {
		return err
	}
	return m.refresh(ctx, id)
}

// outbound record filtered for persistence: stored, non timestamp fields with mutators applied
func (m *Model) outbound(only []string) (schema.Record, error) {
	record := schema.Record{}
	for _, field := range m.schema.Fields {
		if field.PrimaryKey || !field.Persisted() {
			continue
		}
		if len(only) > 0 && !utils.Contains(only, field.Name) {
			continue
		}

		binding := m.bindings[field.Name]
		value, err := binding.Value()
		if err != nil {
			return nil, err
		}
		record[field.Name] = binding.Mutate(value)
	}
	return record, nil
}

func (m *Model) writer() builder.Write {
	return builder.Write{Table: m.schema.Table, PrimaryKey: m.schema.PrimaryKey.DBName}
}
