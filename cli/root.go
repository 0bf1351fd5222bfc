package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hakuorm/haku"
	"github.com/hakuorm/haku/config"
	"github.com/hakuorm/haku/dialects/mysql"
	"github.com/hakuorm/haku/metrics"
	"github.com/hakuorm/haku/migrator"
	"github.com/hakuorm/haku/schema"
)

// App models and migrations served by the commands
type App struct {
	Factories  []schema.Factory
	Migrations func(registry *schema.Registry) ([]migrator.Migration, error)
	// Connect opens the database connection, MySQL from the settings when nil
	Connect func(ctx context.Context, settings *config.Settings) (haku.Connection, error)
	// Registerer receives connection metrics when enabled, prometheus.DefaultRegisterer when nil
	Registerer prometheus.Registerer
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the haku CLI.
func NewRootCommand(app App) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "haku",
		Short: "haku - declarative models over MySQL",
		Long:  "Run migrations, print table definitions and scaffold models of a haku application.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "yaml config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts, app))
	cmd.AddCommand(NewSchemaCommand(opts, app))
	cmd.AddCommand(NewMakeCommand())
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// open the database of the settings with the app models registered
func (app App) open(ctx context.Context, opts *RootOptions) (*haku.DB, func(), error) {
	settings, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, nil, err
	}

	connect := app.Connect
	if connect == nil {
		connect = connectMySQL
	}
	conn, err := connect(ctx, settings)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {}
	if c, ok := conn.(interface{ Close() error }); ok {
		closer = func() { c.Close() }
	}

	if settings.Metrics.Enabled {
		registerer := app.Registerer
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}
		if conn, err = metrics.Instrument(conn, registerer); err != nil {
			closer()
			return nil, nil, err
		}
	}

	l, err := settings.Log.Logger()
	if err != nil {
		closer()
		return nil, nil, err
	}

	db, err := haku.Open(conn, haku.WithLogger(l), haku.WithDefaultLimit(settings.Pagination.DefaultLimit))
	if err != nil {
		closer()
		return nil, nil, err
	}
	if err := db.Register(app.Factories...); err != nil {
		closer()
		return nil, nil, err
	}
	return db, closer, nil
}

func connectMySQL(ctx context.Context, settings *config.Settings) (haku.Connection, error) {
	cfg, err := settings.Database.MySQL()
	if err != nil {
		return nil, err
	}
	return mysql.Connect(ctx, cfg)
}
