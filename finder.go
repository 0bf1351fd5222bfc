package haku

import (
	"context"
	"errors"

	"github.com/hakuorm/haku/builder"
	"github.com/hakuorm/haku/clause"
	"github.com/hakuorm/haku/schema"
)

// FindOptions conditions of a find; soft deleted rows are excluded unless IncludeDeleted
type FindOptions struct {
	Where          []clause.Condition
	OrderBy        []clause.Order
	Limit          int
	Offset         int
	IncludeDeleted bool
}

// FindAll matching rows as records keyed by field name, not hydrated
func (m *Model) FindAll(ctx context.Context, opts FindOptions) ([]schema.Record, error) {
	rows, err := m.rows(ctx, m.finder(), m.scope(opts.Where, opts.IncludeDeleted), opts.OrderBy, opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}

	records := make([]schema.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, schema.MarshalRecord(row))
	}
	return records, nil
}

// FindMany matching rows as hydrated models
func (m *Model) FindMany(ctx context.Context, opts FindOptions) ([]*Model, error) {
	rows, err := m.rows(ctx, m.finder(), m.scope(opts.Where, opts.IncludeDeleted), opts.OrderBy, opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}

	models := make([]*Model, 0, len(rows))
	for _, row := range rows {
		model, err := m.load(row)
		if err != nil {
			return nil, err
		}
		models = append(models, model)
	}
	return models, nil
}

// FindOne first matching row as a new model, ErrRecordNotFound when nothing matches
func (m *Model) FindOne(ctx context.Context, opts FindOptions) (*Model, error) {
	row, err := m.row(ctx, m.scope(opts.Where, opts.IncludeDeleted), opts.OrderBy)
	if err != nil {
		return nil, err
	}
	return m.load(row)
}

// Find model by primary key
func (m *Model) Find(ctx context.Context, pk any) (*Model, error) {
	return m.FindOne(ctx, FindOptions{Where: m.primaryKeyCondition(pk)})
}

// Count matching rows
func (m *Model) Count(ctx context.Context, opts FindOptions) (int64, error) {
	return m.count(ctx, m.finder(), m.scope(opts.Where, opts.IncludeDeleted))
}

// Reload refresh the model from its row, soft deleted or not
func (m *Model) Reload(ctx context.Context) error {
	if !m.IsPersistent() {
		return m.error("reload", ErrNotPersistent)
	}
	return m.refresh(ctx, m.PrimaryKey())
}

func (m *Model) finder(joins ...builder.Join) builder.Find {
	return builder.Find{Table: m.schema.Table, Joins: joins}
}

func (m *Model) rows(ctx context.Context, find builder.Find, where []clause.Condition, orders []clause.Order, limit, offset int) ([]schema.Record, error) {
	if limit <= 0 {
		limit = m.db.DefaultLimit
	}
	stmt, err := find.All(m.schema.Selects(), where, orders, limit, offset)
	if err != nil {
		return nil, m.error("find", err)
	}
	return m.db.Raw(ctx, stmt)
}

func (m *Model) row(ctx context.Context, where []clause.Condition, orders []clause.Order) (schema.Record, error) {
	stmt, err := m.finder().One(m.schema.Selects(), where, orders)
	if err != nil {
		return nil, m.error("find", err)
	}
	return m.db.Row(ctx, stmt)
}

func (m *Model) count(ctx context.Context, find builder.Find, where []clause.Condition) (int64, error) {
	stmt, err := find.Count("", where)
	if err != nil {
		return 0, m.error("count", err)
	}
	value, err := m.db.Scalar(ctx, stmt)
	if err != nil {
		return 0, err
	}
	total, err := toInt64(value)
	if err != nil {
		return 0, m.error("count", err)
	}
	return total, nil
}

// load hydrate a fresh instance of the model with row
func (m *Model) load(row schema.Record) (*Model, error) {
	model, err := m.fresh()
	if err != nil {
		return nil, err
	}
	if err := model.hydrate(row); err != nil {
		return nil, err
	}
	return model, nil
}

func (m *Model) refresh(ctx context.Context, pk any) error {
	row, err := m.row(ctx, m.primaryKeyCondition(pk), nil)
	if errors.Is(err, ErrRecordNotFound) {
		return m.error("refresh", err)
	} else if err != nil {
		return err
	}
	return m.hydrate(row)
}
