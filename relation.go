package haku

import (
	"context"
	"errors"

	"github.com/hakuorm/haku/clause"
	"github.com/hakuorm/haku/schema"
)

// RelationOptions extra conditions of a relation load
type RelationOptions struct {
	Where   []clause.Condition
	OrderBy []clause.Order
	Limit   int
}

// LoadRelation load a declared relation; BelongsTo and HasOne give a *Model or nil,
// HasMany gives a possibly empty []*Model
func (m *Model) LoadRelation(ctx context.Context, name string, opts RelationOptions) (any, error) {
	rel, ok := m.schema.Relationships[name]
	if !ok {
		return nil, m.error("load "+name, ErrUnknownRelation)
	}

	if _, err := m.db.Registry.Resolve(m.schema, rel); err != nil {
		return nil, err
	}
	related, err := m.db.New(rel.Target)
	if err != nil {
		return nil, err
	}

	var loaded any
	switch rel.Type {
	case schema.BelongsTo:
		fk := m.bindings[m.schema.LookUpField(rel.ForeignKey).Name].Get()
		if !isKey(fk) {
			break
		}
		where := withGroup(related.primaryKeyCondition(fk), opts.Where)
		one, err := related.FindOne(ctx, FindOptions{Where: where, OrderBy: opts.OrderBy})
		if err != nil && !errors.Is(err, ErrRecordNotFound) {
			return nil, err
		}
		if one != nil {
			loaded = one
		}
	case schema.HasOne:
		if !m.IsPersistent() {
			break
		}
		where := withGroup([]clause.Condition{clause.Is(rel.ForeignKey, m.PrimaryKey())}, opts.Where)
		one, err := related.FindOne(ctx, FindOptions{Where: where, OrderBy: opts.OrderBy})
		if err != nil && !errors.Is(err, ErrRecordNotFound) {
			return nil, err
		}
		if one != nil {
			loaded = one
		}
	case schema.HasMany:
		many := []*Model{}
		if m.IsPersistent() {
			where := withGroup([]clause.Condition{clause.Is(rel.ForeignKey, m.PrimaryKey())}, opts.Where)
			if many, err = related.FindMany(ctx, FindOptions{Where: where, OrderBy: opts.OrderBy, Limit: opts.Limit}); err != nil {
				return nil, err
			}
		}
		loaded = many
	}

	if m.relations == nil {
		m.relations = map[string]any{}
	}
	m.relations[name] = loaded
	return loaded, nil
}

// LoadAllRelations load every declared relation in declaration order
func (m *Model) LoadAllRelations(ctx context.Context) error {
	for _, rel := range m.schema.Relations {
		if _, err := m.LoadRelation(ctx, rel.Name, RelationOptions{}); err != nil {
			return err
		}
	}
	return nil
}

// withGroup AND key with the caller conditions kept in one group
func withGroup(key, where []clause.Condition) []clause.Condition {
	if len(where) == 0 {
		return key
	}
	return append(key, clause.Group(where...))
}
