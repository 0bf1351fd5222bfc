package haku

import (
	"context"
	"time"

	"github.com/hakuorm/haku/clause"
	"github.com/hakuorm/haku/logger"
	"github.com/hakuorm/haku/schema"
)

// Exec run a write statement, returns affected rows
func (db *DB) Exec(ctx context.Context, stmt clause.Statement) (int64, error) {
	begin := time.Now()
	rows, err := db.Conn.Execute(ctx, stmt.SQL, stmt.Params)
	return rows, db.trace(ctx, begin, stmt, rows, err)
}

// Raw run a select statement, returns storage records
func (db *DB) Raw(ctx context.Context, stmt clause.Statement) ([]schema.Record, error) {
	begin := time.Now()
	records, err := db.Conn.FetchAll(ctx, stmt.SQL, stmt.Params)
	return records, db.trace(ctx, begin, stmt, int64(len(records)), err)
}

// Row run a select statement, returns the first storage record or ErrRecordNotFound
func (db *DB) Row(ctx context.Context, stmt clause.Statement) (schema.Record, error) {
	begin := time.Now()
	record, err := db.Conn.Fetch(ctx, stmt.SQL, stmt.Params)
	if err == nil && record == nil {
		return nil, db.trace(ctx, begin, stmt, 0, ErrRecordNotFound)
	}
	return record, db.trace(ctx, begin, stmt, 1, err)
}

// Scalar run a select statement, returns the first column of the first row
func (db *DB) Scalar(ctx context.Context, stmt clause.Statement) (any, error) {
	begin := time.Now()
	value, err := db.Conn.FetchColumn(ctx, stmt.SQL, stmt.Params)
	return value, db.trace(ctx, begin, stmt, 1, err)
}

func (db *DB) lastInsertID(ctx context.Context) (int64, error) {
	id, err := db.Conn.LastInsertID(ctx)
	if err != nil {
		return 0, &DatabaseError{SQL: "LAST_INSERT_ID()", Err: err}
	}
	return id, nil
}

func (db *DB) trace(ctx context.Context, begin time.Time, stmt clause.Statement, rows int64, err error) error {
	db.Logger.Trace(ctx, begin, func() (string, int64) {
		sql, params := stmt.SQL, stmt.Params
		if filter, ok := db.Logger.(logger.ParamsFilter); ok {
			sql, params = filter.ParamsFilter(ctx, sql, params)
		}
		return logger.ExplainSQL(sql, params), rows
	}, err)

	if err != nil && err != ErrRecordNotFound {
		return &DatabaseError{SQL: stmt.SQL, Err: err}
	}
	return err
}
