// Package migrations lists the migrations of the haku command, in file order
package migrations

import (
	"github.com/hakuorm/haku/migrator"
	"github.com/hakuorm/haku/schema"
)

type generate func(g migrator.MigrationGenerator) (migrator.Migration, error)

var registered []generate

func register(fn generate) {
	registered = append(registered, fn)
}

// All migrations generated against registry, in creation order
func All(registry *schema.Registry) ([]migrator.Migration, error) {
	g := migrator.NewMigrationGenerator(registry)
	migrations := make([]migrator.Migration, 0, len(registered))
	for _, fn := range registered {
		migration, err := fn(g)
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, migration)
	}
	return migrations, nil
}
