package migrations

import (
	"github.com/hakuorm/haku/internal/models"
	"github.com/hakuorm/haku/migrator"
)

func init() {
	register(func(g migrator.MigrationGenerator) (migrator.Migration, error) {
		return g.Generate(&models.Post{})
	})
}
