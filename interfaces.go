package haku

import (
	"context"

	"github.com/hakuorm/haku/schema"
	"github.com/hakuorm/haku/validator"
)

// Connection statement execution capability; params are bound by `:name`, row keys are column names
type Connection interface {
	Execute(ctx context.Context, sql string, params map[string]any) (int64, error)
	Fetch(ctx context.Context, sql string, params map[string]any) (schema.Record, error)
	FetchAll(ctx context.Context, sql string, params map[string]any) ([]schema.Record, error)
	FetchColumn(ctx context.Context, sql string, params map[string]any) (any, error)
	LastInsertID(ctx context.Context) (int64, error)
	BeginTransaction(ctx context.Context) error
	Commit(ctx context.Context) error
	RollBack(ctx context.Context) error
	InTransaction() bool
}

// Validator rule evaluation capability
type Validator interface {
	ValidateAll(rules []schema.Rule, field string, record schema.Record) validator.Result
}
