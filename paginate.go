package haku

import (
	"context"

	"github.com/hakuorm/haku/builder"
	"github.com/hakuorm/haku/clause"
	"github.com/hakuorm/haku/schema"
)

// PageOptions conditions and window of a page
type PageOptions struct {
	Where          []clause.Condition
	OrderBy        []clause.Order
	Page           int
	Limit          int
	IncludeDeleted bool
}

// Pagination page arithmetic
type Pagination struct {
	Page      int  `json:"page"`
	Limit     int  `json:"limit"`
	Offset    int  `json:"offset"`
	PageCount int  `json:"pageCount"`
	PrevPage  *int `json:"prevPage"`
	NextPage  *int `json:"nextPage"`
}

// Meta page metadata
type Meta struct {
	Model        string `json:"model"`
	Table        string `json:"table"`
	TotalRecords int64  `json:"totalRecords"`
}

// Page one page of serialized models
type Page struct {
	Pagination Pagination      `json:"pagination"`
	Meta       Meta            `json:"meta"`
	Records    []schema.Record `json:"records"`
}

// NewPagination compute the window of page over total records;
// page < 1 is treated as 1 and limit <= 0 as builder.DefaultLimit
func NewPagination(page, limit int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = builder.DefaultLimit
	}

	p := Pagination{
		Page:      page,
		Limit:     limit,
		PageCount: int((total + int64(limit) - 1) / int64(limit)),
	}
	if prev := page - 1; prev > 0 {
		p.PrevPage = &prev
	}
	if next := page + 1; next <= p.PageCount {
		p.NextPage = &next
	}
	p.Offset = (page - 1) * limit
	return p
}

// Paginate count then fetch one page of matching rows, serialized through the model
func (m *Model) Paginate(ctx context.Context, opts PageOptions) (*Page, error) {
	return m.paginate(ctx, m.finder(), m.scope(opts.Where, opts.IncludeDeleted), opts.OrderBy, opts.Page, opts.Limit)
}

func (m *Model) paginate(ctx context.Context, find builder.Find, where []clause.Condition, orders []clause.Order, page, limit int) (*Page, error) {
	if limit <= 0 {
		limit = m.db.DefaultLimit
	}

	total, err := m.count(ctx, find, where)
	if err != nil {
		return nil, err
	}

	pagination := NewPagination(page, limit, total)
	rows, err := m.rows(ctx, find, where, orders, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, err
	}

	records := make([]schema.Record, 0, len(rows))
	for _, row := range rows {
		model, err := m.load(row)
		if err != nil {
			return nil, err
		}
		records = append(records, model.JSON())
	}

	return &Page{
		Pagination: pagination,
		Meta:       Meta{Model: m.schema.Name, Table: m.schema.Table, TotalRecords: total},
		Records:    records,
	}, nil
}
