package migrator

import (
	"context"
	"strings"

	"github.com/hakuorm/haku"
	"github.com/hakuorm/haku/clause"
)

// Migration reversible schema change
type Migration interface {
	Name() string
	Up(ctx context.Context, db *haku.DB) error
	Down(ctx context.Context, db *haku.DB) error
}

// Seeder migrations filling tables after they are created
type Seeder interface {
	Seed(ctx context.Context, db *haku.DB) error
}

// TableMigration creates tables on up, drops them on down
type TableMigration struct {
	name string
	up   []string
	down []string
}

// NewTableMigration table migration from raw DDL
func NewTableMigration(name, up, down string) *TableMigration {
	return &TableMigration{name: name, up: []string{up}, down: []string{down}}
}

func (m *TableMigration) Name() string {
	return m.name
}

// UpSQL statements run on up
func (m *TableMigration) UpSQL() string {
	return strings.Join(m.up, "\n")
}

// DownSQL statements run on down
func (m *TableMigration) DownSQL() string {
	return strings.Join(m.down, "\n")
}

func (m *TableMigration) Up(ctx context.Context, db *haku.DB) error {
	return run(ctx, db, m.up)
}

func (m *TableMigration) Down(ctx context.Context, db *haku.DB) error {
	return run(ctx, db, m.down)
}

func run(ctx context.Context, db *haku.DB, statements []string) error {
	for _, sql := range statements {
		if _, err := db.Exec(ctx, clause.Statement{SQL: sql}); err != nil {
			return err
		}
	}
	return nil
}
