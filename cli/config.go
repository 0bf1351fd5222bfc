package cli

import (
	"github.com/spf13/cobra"

	"github.com/hakuorm/haku/config"
)

// NewConfigCommand creates the config command printing the effective settings.
func NewConfigCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(opts.ConfigFile)
			if err != nil {
				return err
			}
			out, err := settings.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
