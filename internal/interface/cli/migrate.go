package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/careerpath-hub/career-path-builder/config"
	"github.com/careerpath-hub/career-path-builder/internal/app"
)

func newMigrateCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations for the sqlite or postgres backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Storage.Backend == config.BackendJSON {
				fmt.Fprintln(out, "json backend: nothing to migrate")
				return nil
			}

			log := app.NewLogger(cfg.Observability, os.Stderr)
			n, err := app.Migrate(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			if cfg.Storage.Backend == config.BackendSQLite {
				fmt.Fprintf(out, "sqlite schema is up to date (%s)\n", cfg.Storage.SQLitePath)
				return nil
			}
			fmt.Fprintf(out, "applied %d migration(s)\n", n)
			return nil
		},
	}
}
