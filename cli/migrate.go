package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/hakuorm/haku/migrator"
)

// NewMigrateCommand creates the migrate command and its up, down, status and seed subcommands.
func NewMigrateCommand(opts *RootOptions, app App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, revert and inspect migrations",
	}

	run := func(fn func(ctx context.Context, runner *migrator.Runner, w io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			db, closer, err := app.open(ctx, opts)
			if err != nil {
				return err
			}
			defer closer()

			if app.Migrations == nil {
				return fmt.Errorf("no migrations configured")
			}
			migrations, err := app.Migrations(db.Registry)
			if err != nil {
				return err
			}
			runner, err := migrator.NewRunner(db, migrations...)
			if err != nil {
				return err
			}
			return fn(ctx, runner, cmd.OutOrStdout())
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations as a new batch",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, runner *migrator.Runner, w io.Writer) error {
			names, err := runner.Up(ctx)
			printNames(w, opts.Format, "applied", names)
			return err
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert the latest batch",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, runner *migrator.Runner, w io.Writer) error {
			names, err := runner.Down(ctx)
			printNames(w, opts.Format, "reverted", names)
			return err
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Run the seeders of every migration",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, runner *migrator.Runner, w io.Writer) error {
			names, err := runner.Seed(ctx)
			printNames(w, opts.Format, "seeded", names)
			return err
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, runner *migrator.Runner, w io.Writer) error {
			statuses, err := runner.Status(ctx)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return json.NewEncoder(w).Encode(statuses)
			}
			for _, status := range statuses {
				if status.Applied {
					fmt.Fprintf(w, "applied  %s (batch %s, %s)\n", status.Name, status.Batch, status.AppliedAt.Format(time.RFC3339))
				} else {
					fmt.Fprintf(w, "pending  %s\n", status.Name)
				}
			}
			return nil
		}),
	})

	return cmd
}

func printNames(w io.Writer, format, verb string, names []string) {
	if format == "json" {
		if names == nil {
			names = []string{}
		}
		json.NewEncoder(w).Encode(map[string][]string{verb: names})
		return
	}
	if len(names) == 0 {
		fmt.Fprintf(w, "nothing %s\n", verb)
		return
	}
	for _, name := range names {
		fmt.Fprintf(w, "%s %s\n", verb, name)
	}
}
