package dialects

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/hakuorm/haku"
	"github.com/hakuorm/haku/internal/stmt_store"
	"github.com/hakuorm/haku/schema"
)

var (
	// ErrTransactionStarted nested transactions are not supported
	ErrTransactionStarted = errors.New("transaction already started")
	// ErrNoTransaction commit or rollback without transaction
	ErrNoTransaction = errors.New("no transaction in progress")
)

var _ haku.Connection = (*Conn)(nil)

// Option configures a Conn
type Option func(*Conn)

// WithPreparedStmt cache prepared statements for ttl
func WithPreparedStmt(ttl time.Duration) Option {
	return func(c *Conn) {
		c.stmts = stmt_store.New(ttl)
	}
}

// Conn connection over database/sql
type Conn struct {
	db      *sql.DB
	dialect Dialect
	stmts   *stmt_store.Store

	mu     sync.Mutex
	tx     *sql.Tx
	lastID int64
}

// New connection of dialect over db
func New(db *sql.DB, dialect Dialect, opts ...Option) *Conn {
	c := &Conn{db: db, dialect: dialect}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DB underlying pool
func (c *Conn) DB() *sql.DB {
	return c.db
}

// Dialect database flavour
func (c *Conn) Dialect() Dialect {
	return c.dialect
}

// Ping verify the database is reachable
func (c *Conn) Ping(ctx context.Context) error {
	return c.translate(c.db.PingContext(ctx))
}

// Close release cached statements and the pool
func (c *Conn) Close() error {
	if c.stmts != nil {
		c.stmts.Close()
	}
	return c.db.Close()
}

func (c *Conn) Execute(ctx context.Context, query string, params map[string]any) (int64, error) {
	query, args, err := Bind(c.dialect, query, params)
	if err != nil {
		return 0, err
	}

	var result sql.Result
	stmt, tx, err := c.prepare(ctx, query)
	switch {
	case err != nil:
	case stmt != nil:
		result, err = stmt.ExecContext(ctx, args...)
	case tx != nil:
		result, err = tx.ExecContext(ctx, query, args...)
	default:
		result, err = c.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		return 0, c.translate(err)
	}

	if id, err := result.LastInsertId(); err == nil && id > 0 {
		c.mu.Lock()
		c.lastID = id
		c.mu.Unlock()
	}
	return result.RowsAffected()
}

func (c *Conn) Fetch(ctx context.Context, query string, params map[string]any) (schema.Record, error) {
	records, err := c.FetchAll(ctx, query, params)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

func (c *Conn) FetchAll(ctx context.Context, query string, params map[string]any) ([]schema.Record, error) {
	rows, err := c.query(ctx, query, params)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := []schema.Record{}
	for rows.Next() {
		values, err := scan(rows, len(columns))
		if err != nil {
			return nil, c.translate(err)
		}
		record := make(schema.Record, len(columns))
		for i, column := range columns {
			record[column] = values[i]
		}
		records = append(records, record)
	}
	return records, c.translate(rows.Err())
}

func (c *Conn) FetchColumn(ctx context.Context, query string, params map[string]any) (any, error) {
	rows, err := c.query(ctx, query, params)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil || len(columns) == 0 {
		return nil, err
	}
	if !rows.Next() {
		return nil, c.translate(rows.Err())
	}
	values, err := scan(rows, len(columns))
	if err != nil {
		return nil, c.translate(err)
	}
	return values[0], nil
}

func (c *Conn) LastInsertID(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastID, nil
}

func (c *Conn) BeginTransaction(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx != nil {
		return ErrTransactionStarted
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return c.translate(err)
	}
	c.tx = tx
	return nil
}

func (c *Conn) Commit(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx == nil {
		return ErrNoTransaction
	}
	err := c.tx.Commit()
	c.tx = nil
	return c.translate(err)
}

func (c *Conn) RollBack(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx == nil {
		return ErrNoTransaction
	}
	err := c.tx.Rollback()
	c.tx = nil
	return c.translate(err)
}

func (c *Conn) InTransaction() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tx != nil
}

func (c *Conn) query(ctx context.Context, query string, params map[string]any) (*sql.Rows, error) {
	query, args, err := Bind(c.dialect, query, params)
	if err != nil {
		return nil, err
	}

	var rows *sql.Rows
	stmt, tx, err := c.prepare(ctx, query)
	switch {
	case err != nil:
	case stmt != nil:
		rows, err = stmt.QueryContext(ctx, args...)
	case tx != nil:
		rows, err = tx.QueryContext(ctx, query, args...)
	default:
		rows, err = c.db.QueryContext(ctx, query, args...)
	}
	return rows, c.translate(err)
}

// prepare cached statement of query, bound to the running transaction if any;
// nil statement when caching is disabled
func (c *Conn) prepare(ctx context.Context, query string) (*sql.Stmt, *sql.Tx, error) {
	c.mu.Lock()
	tx := c.tx
	c.mu.Unlock()

	if c.stmts == nil {
		return nil, tx, nil
	}
	stmt, err := c.stmts.Prepare(ctx, c.db, query)
	if err != nil {
		return nil, tx, err
	}
	if tx != nil {
		return tx.StmtContext(ctx, stmt), tx, nil
	}
	return stmt, nil, nil
}

func (c *Conn) translate(err error) error {
	if err == nil || c.dialect == nil || c.dialect.Translator() == nil {
		return err
	}
	return c.dialect.Translator().Translate(err)
}

// scan current row, turning driver byte slices into strings
func scan(rows *sql.Rows, n int) ([]any, error) {
	values := make([]any, n)
	ptrs := make([]any, n)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}
