package haku

import (
	"context"
	"fmt"
	"time"

	"github.com/hakuorm/haku/builder"
	"github.com/hakuorm/haku/logger"
	"github.com/hakuorm/haku/schema"
	"github.com/hakuorm/haku/validator"
)

// Config haku config
type Config struct {
	// NamingStrategy columns, relations and side tables naming strategy
	NamingStrategy schema.Namer
	// Logger
	Logger logger.Interface
	// NowFunc the function to be used when creating a new timestamp
	NowFunc func() time.Time
	// Validator evaluates field rules
	Validator Validator
	// Registry registered models
	Registry *schema.Registry
	// DefaultLimit page size of finds and paginations without limit
	DefaultLimit int
}

// DB haku DB definition
type DB struct {
	*Config
	Conn Connection
}

// Open initialize db on top of a connection
func Open(conn Connection, opts ...ConfigOption) (*DB, error) {
	if conn == nil {
		return nil, ErrMissingConnection
	}

	config := &Config{}
	for _, opt := range opts {
		opt(config)
	}

	if config.NamingStrategy == nil {
		config.NamingStrategy = schema.NamingStrategy{}
	}
	if config.Logger == nil {
		config.Logger = logger.Default
	}
	if config.NowFunc == nil {
		config.NowFunc = func() time.Time { return time.Now().Local() }
	}
	if config.Validator == nil {
		config.Validator = validator.New()
	}
	if config.Registry == nil {
		config.Registry = schema.NewRegistry(config.NamingStrategy)
	}
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = builder.DefaultLimit
	}

	return &DB{Config: config, Conn: conn}, nil
}

// Register register model factories by entity name
func (db *DB) Register(factories ...schema.Factory) error {
	return db.Registry.Register(factories...)
}

// Model wrap a model value, running its declarations
func (db *DB) Model(value schema.Declarer) (*Model, error) {
	s, bindings, err := schema.Parse(value, db.NamingStrategy)
	if err != nil {
		return nil, err
	}
	return &Model{db: db, value: value, schema: s, bindings: bindings}, nil
}

// New instantiate a registered model by entity name
func (db *DB) New(name string) (*Model, error) {
	value, err := db.Registry.New(name)
	if err != nil {
		return nil, err
	}
	return db.Model(value)
}

// Transaction run fn inside a transaction, rolled back when fn fails
func (db *DB) Transaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if err = db.Conn.BeginTransaction(ctx); err != nil {
		return &DatabaseError{SQL: "BEGIN", Err: err}
	}

	defer func() {
		if r := recover(); r != nil {
			_ = db.Conn.RollBack(ctx)
			panic(r)
		}
	}()

	if err = fn(ctx); err != nil {
		if rbErr := db.Conn.RollBack(ctx); rbErr != nil {
			db.Logger.Error(ctx, "rollback failed", rbErr)
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err = db.Conn.Commit(ctx); err != nil {
		return &DatabaseError{SQL: "COMMIT", Err: err}
	}
	return nil
}
