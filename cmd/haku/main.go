package main

import (
	"fmt"
	"os"

	"github.com/hakuorm/haku/cli"
	"github.com/hakuorm/haku/internal/migrations"
	"github.com/hakuorm/haku/internal/models"
)

func main() {
	cmd := cli.NewRootCommand(cli.App{
		Factories:  models.Factories(),
		Migrations: migrations.All,
	})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
