package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hakuorm/haku/migrator"
	"github.com/hakuorm/haku/schema"
)

// NewSchemaCommand creates the schema command printing table definitions of the app models.
func NewSchemaCommand(opts *RootOptions, app App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print table definitions of the registered models",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create [model...]",
		Short: "Print CREATE TABLE statements, every model when none is named",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, names, err := app.registry(args)
			if err != nil {
				return err
			}
			g := migrator.NewMigrationGenerator(registry)
			for _, name := range names {
				s, err := registry.Schema(name)
				if err != nil {
					return err
				}
				tt, err := g.Table(s)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tt.CreateSQL())
				if search, ok := g.SearchTable(s); ok {
					fmt.Fprintln(cmd.OutOrStdout(), search.CreateSQL())
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "drop [model...]",
		Short: "Print DROP TABLE statements, every model when none is named",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, names, err := app.registry(args)
			if err != nil {
				return err
			}
			g := migrator.NewMigrationGenerator(registry)
			for _, name := range names {
				s, err := registry.Schema(name)
				if err != nil {
					return err
				}
				if search, ok := g.SearchTable(s); ok {
					fmt.Fprintln(cmd.OutOrStdout(), search.DropSQL())
				}
				fmt.Fprintln(cmd.OutOrStdout(), g.DropTable(s))
			}
			return nil
		},
	})

	return cmd
}

// registry of the app models and the requested names, all registered names when none
func (app App) registry(names []string) (*schema.Registry, []string, error) {
	registry := schema.NewRegistry(nil)
	if err := registry.Register(app.Factories...); err != nil {
		return nil, nil, err
	}
	if len(names) == 0 {
		names = registry.Names()
	}
	return registry, names, nil
}
