package haku

import (
	"context"
	"strings"

	"github.com/hakuorm/haku/builder"
	"github.com/hakuorm/haku/clause"
)

// SearchOptions full-text search of a searchable model
type SearchOptions struct {
	Criteria       string
	Where          []clause.Condition
	OrderBy        []clause.Order
	Page           int
	Limit          int
	IncludeDeleted bool
}

// IsSearchable reports whether the model declares a search table
func (m *Model) IsSearchable() bool {
	return m.schema.Search != nil
}

// Search join the search table and paginate rows matching criteria in boolean mode
func (m *Model) Search(ctx context.Context, opts SearchOptions) (*Page, error) {
	search := m.schema.Search
	if search == nil || strings.TrimSpace(opts.Criteria) == "" {
		return nil, m.error("search", ErrInvalidSearch)
	}

	columns := make([]string, 0, len(search.Columns))
	for _, column := range search.Columns {
		columns = append(columns, clause.Column(search.Table, column))
	}
	if len(columns) == 0 {
		return nil, m.error("search", ErrInvalidSearch)
	}

	join := builder.Join{
		Table: search.Table,
		On:    clause.Column(search.Table, search.CoupleKey) + " = " + clause.Column(m.schema.Table, m.schema.PrimaryKey.Name),
	}
	where := append([]clause.Condition{clause.Match(columns, opts.Criteria)}, opts.Where...)
	return m.paginate(ctx, m.finder(join), m.scope(where, opts.IncludeDeleted), opts.OrderBy, opts.Page, opts.Limit)
}
