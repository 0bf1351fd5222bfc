package migrator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/hakuorm/haku"
	"github.com/hakuorm/haku/clause"
	"github.com/hakuorm/haku/schema"
)

// TableName table tracking applied migrations
const TableName = "haku_migrations"

const entryName = "HakuMigration"

// ErrUnknownMigration applied migration missing from the runner
var ErrUnknownMigration = errors.New("unknown migration")

type entry struct {
	ID        int64
	Name      string
	Batch     string
	AppliedAt time.Time
}

func (e *entry) Declare(d *schema.Declaration) {
	d.Entity(entryName, TableName)
	d.Field("id", &e.ID).PrimaryKey().ReadOnly()
	d.Field("name", &e.Name).Rules("required", "len:..191", "unique")
	d.Field("batch", &e.Batch).ColumnType("CHAR(36) NOT NULL")
	d.Field("appliedAt", &e.AppliedAt)
}

// Status state of a migration
type Status struct {
	Name      string
	Applied   bool
	Batch     string
	AppliedAt *time.Time
}

// Runner applies and reverts migrations in order, one transaction per migration
type Runner struct {
	db         *haku.DB
	generator  MigrationGenerator
	migrations []Migration
}

// NewRunner runner of migrations over db
func NewRunner(db *haku.DB, migrations ...Migration) (*Runner, error) {
	if err := db.Register(func() schema.Declarer { return &entry{} }); err != nil {
		return nil, err
	}
	return &Runner{db: db, generator: NewMigrationGenerator(db.Registry), migrations: migrations}, nil
}

// Migrations registered migrations
func (r *Runner) Migrations() []Migration {
	return r.migrations
}

// Init create the tracking table
func (r *Runner) Init(ctx context.Context) error {
	s, err := r.db.Registry.Schema(entryName)
	if err != nil {
		return err
	}
	sql, err := r.generator.CreateTable(s)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, clause.Statement{SQL: sql})
	return err
}

// Up apply pending migrations under a new batch, returns the applied names
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	entries, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	done := make(map[string]bool, len(entries))
	for _, e := range entries {
		done[e.Name] = true
	}

	var (
		batch = uuid.NewString()
		names []string
	)
	for _, migration := range r.migrations {
		if done[migration.Name()] {
			continue
		}

		err := r.db.Transaction(ctx, func(ctx context.Context) error {
			if err := migration.Up(ctx, r.db); err != nil {
				return err
			}
			m, err := r.db.Model(&entry{Name: migration.Name(), Batch: batch, AppliedAt: r.db.NowFunc()})
			if err != nil {
				return err
			}
			return m.Save(ctx, haku.SaveOptions{IgnoreValidation: true})
		})
		if err != nil {
			return names, fmt.Errorf("migration %s: %w", migration.Name(), err)
		}

		r.db.Logger.Info(ctx, "migration applied", migration.Name(), batch)
		names = append(names, migration.Name())
	}
	return names, nil
}

// Down revert the latest batch in reverse order, returns the reverted names
func (r *Runner) Down(ctx context.Context) ([]string, error) {
	entries, err := r.applied(ctx)
	if err != nil || len(entries) == 0 {
		return nil, err
	}

	var (
		batch = entries[len(entries)-1].Batch
		names []string
	)
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Batch != batch {
			continue
		}

		migration := r.lookup(e.Name)
		if migration == nil {
			return names, fmt.Errorf("migration %s: %w", e.Name, ErrUnknownMigration)
		}

		err := r.db.Transaction(ctx, func(ctx context.Context) error {
			if err := migration.Down(ctx, r.db); err != nil {
				return err
			}
			m, err := r.db.Model(e)
			if err != nil {
				return err
			}
			return m.Delete(ctx, nil, true)
		})
		if err != nil {
			return names, fmt.Errorf("migration %s: %w", e.Name, err)
		}

		r.db.Logger.Info(ctx, "migration reverted", e.Name, batch)
		names = append(names, e.Name)
	}
	return names, nil
}

// Seed run every seeder inside one transaction
func (r *Runner) Seed(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.Transaction(ctx, func(ctx context.Context) error {
		for _, migration := range r.migrations {
			seeder, ok := migration.(Seeder)
			if !ok {
				continue
			}
			if err := seeder.Seed(ctx, r.db); err != nil {
				return fmt.Errorf("seed %s: %w", migration.Name(), err)
			}
			names = append(names, migration.Name())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Status state of every registered migration
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	entries, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	applied := make(map[string]*entry, len(entries))
	for _, e := range entries {
		applied[e.Name] = e
	}

	statuses := make([]Status, 0, len(r.migrations))
	for _, migration := range r.migrations {
		status := Status{Name: migration.Name()}
		if e, ok := applied[migration.Name()]; ok {
			appliedAt := e.AppliedAt
			status.Applied, status.Batch, status.AppliedAt = true, e.Batch, &appliedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// applied tracked migrations in application order
func (r *Runner) applied(ctx context.Context) ([]*entry, error) {
	if err := r.Init(ctx); err != nil {
		return nil, err
	}

	m, err := r.db.New(entryName)
	if err != nil {
		return nil, err
	}
	return haku.Many[*entry](m.FindMany(ctx, haku.FindOptions{
		OrderBy: []clause.Order{clause.Asc("id")},
		Limit:   math.MaxInt32,
	}))
}

func (r *Runner) lookup(name string) Migration {
	for _, migration := range r.migrations {
		if migration.Name() == name {
			return migration
		}
	}
	return nil
}
