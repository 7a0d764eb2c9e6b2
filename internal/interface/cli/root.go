// Package cli defines the careerpath command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// Options are the flags shared by every command.
type Options struct {
	EnvFiles []string
}

// NewRootCmd creates the top-level "careerpath" command. Running it without a
// subcommand starts the web server.
func NewRootCmd(version string) *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:           "careerpath",
		Short:         "Career Path Builder web application",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", nil,
		"dotenv files to load before reading the environment (default ./.env when present)")

	serve := newServeCmd(opts)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(
		serve,
		newMigrateCmd(opts),
		newCatalogCmd(),
	)

	return root
}
