package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hakuorm/haku"
	"github.com/hakuorm/haku/schema"
)

var _ haku.Connection = (*Connection)(nil)

// Connection mock of haku.Connection
type Connection struct {
	mock.Mock
}

func (_m *Connection) Execute(ctx context.Context, sql string, params map[string]any) (int64, error) {
	ret := _m.Called(ctx, sql, params)

	var r0 int64
	if rf, ok := ret.Get(0).(func(context.Context, string, map[string]any) int64); ok {
		r0 = rf(ctx, sql, params)
	} else {
		r0 = ret.Get(0).(int64)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, map[string]any) error); ok {
		r1 = rf(ctx, sql, params)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Connection) Fetch(ctx context.Context, sql string, params map[string]any) (schema.Record, error) {
	ret := _m.Called(ctx, sql, params)

	var r0 schema.Record
	if rf, ok := ret.Get(0).(func(context.Context, string, map[string]any) schema.Record); ok {
		r0 = rf(ctx, sql, params)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(schema.Record)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, map[string]any) error); ok {
		r1 = rf(ctx, sql, params)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Connection) FetchAll(ctx context.Context, sql string, params map[string]any) ([]schema.Record, error) {
	ret := _m.Called(ctx, sql, params)

	var r0 []schema.Record
	if rf, ok := ret.Get(0).(func(context.Context, string, map[string]any) []schema.Record); ok {
		r0 = rf(ctx, sql, params)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]schema.Record)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, map[string]any) error); ok {
		r1 = rf(ctx, sql, params)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Connection) FetchColumn(ctx context.Context, sql string, params map[string]any) (any, error) {
	ret := _m.Called(ctx, sql, params)

	var r0 any
	if rf, ok := ret.Get(0).(func(context.Context, string, map[string]any) any); ok {
		r0 = rf(ctx, sql, params)
	} else {
		r0 = ret.Get(0)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, map[string]any) error); ok {
		r1 = rf(ctx, sql, params)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Connection) LastInsertID(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)

	var r0 int64
	if rf, ok := ret.Get(0).(func(context.Context) int64); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(int64)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *Connection) BeginTransaction(ctx context.Context) error {
	return _m.callError(_m.Called(ctx), ctx)
}

func (_m *Connection) Commit(ctx context.Context) error {
	return _m.callError(_m.Called(ctx), ctx)
}

func (_m *Connection) RollBack(ctx context.Context) error {
	return _m.callError(_m.Called(ctx), ctx)
}

func (_m *Connection) InTransaction() bool {
	ret := _m.Called()

	var r0 bool
	if rf, ok := ret.Get(0).(func() bool); ok {
		r0 = rf()
	} else {
		r0 = ret.Bool(0)
	}

	return r0
}

func (_m *Connection) callError(ret mock.Arguments, ctx context.Context) error {
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		return rf(ctx)
	}
	return ret.Error(0)
}
