package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/careerpath-hub/career-path-builder/config"
	"github.com/careerpath-hub/career-path-builder/internal/app"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

func newServeCmd(opts *Options) *cobra.Command {
	var (
		port    int
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.HTTP.Port = port
			}
			if backend != "" {
				cfg.Storage.Backend = backend
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			log := app.NewLogger(cfg.Observability, os.Stdout).With(
				logger.String("app", cfg.App.Name),
				logger.String("version", cfg.App.Version),
			)
			log.Info("starting Career Path Builder",
				logger.String("env", string(cfg.App.Environment)),
				logger.Bool("debug", cfg.App.Debug),
			)
			if cfg.Session.Generated {
				log.Warn("SESSION_SECRET not set, using a random secret; sessions end on restart")
			}
			if cfg.SMTP.Username == "" || cfg.SMTP.Password == "" {
				log.Warn("SMTP credentials not set, welcome emails are disabled")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.Build(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("startup: %w", err)
			}
			return a.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override HTTP_PORT")
	cmd.Flags().StringVar(&backend, "backend", "", "override STORAGE_BACKEND (json, sqlite, postgres)")
	return cmd
}

func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.LoadFiles(opts.EnvFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
