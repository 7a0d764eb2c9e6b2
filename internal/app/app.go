// Package app wires configuration, storage and transport into a runnable
// Career Path Builder process.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/careerpath-hub/career-path-builder/config"
	"github.com/careerpath-hub/career-path-builder/internal/application/auth"
	"github.com/careerpath-hub/career-path-builder/internal/application/command"
	"github.com/careerpath-hub/career-path-builder/internal/application/query"
	"github.com/careerpath-hub/career-path-builder/internal/domain/account"
	"github.com/careerpath-hub/career-path-builder/internal/domain/catalog"
	"github.com/careerpath-hub/career-path-builder/internal/domain/progress"
	"github.com/careerpath-hub/career-path-builder/internal/domain/session"
	"github.com/careerpath-hub/career-path-builder/internal/infrastructure/notification"
	"github.com/careerpath-hub/career-path-builder/internal/infrastructure/persistence/jsonfile"
	"github.com/careerpath-hub/career-path-builder/internal/infrastructure/persistence/memory"
	"github.com/careerpath-hub/career-path-builder/internal/infrastructure/persistence/postgres"
	"github.com/careerpath-hub/career-path-builder/internal/infrastructure/persistence/redis"
	"github.com/careerpath-hub/career-path-builder/internal/infrastructure/persistence/sqlite"
	"github.com/careerpath-hub/career-path-builder/internal/infrastructure/scheduler"
	"github.com/careerpath-hub/career-path-builder/internal/infrastructure/scheduler/jobs"
	"github.com/careerpath-hub/career-path-builder/internal/infrastructure/security"
	httpserver "github.com/careerpath-hub/career-path-builder/internal/interface/http"
	"github.com/careerpath-hub/career-path-builder/internal/interface/http/handlers"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
	"github.com/careerpath-hub/career-path-builder/pkg/retry"
	"github.com/careerpath-hub/career-path-builder/pkg/timeutil"
)

// App is a fully wired web process.
type App struct {
	Config *config.Config
	Logger *logger.Logger
	Server *httpserver.Server

	// Scheduler is nil when no background jobs are needed.
	Scheduler *scheduler.Scheduler

	closers []func()
}

// NewLogger builds the process logger from observability settings.
func NewLogger(cfg config.ObservabilityConfig, out io.Writer) *logger.Logger {
	opts := logger.DefaultOptions()
	if out != nil {
		opts.Output = out
	}
	opts.Level = logger.ParseLevel(cfg.LogLevel)
	if cfg.LogFormat == string(logger.FormatText) {
		opts.Format = logger.FormatText
	}
	return logger.New(opts)
}

// Build opens storage and the session store and assembles the HTTP server.
// Resources opened before a failure are released.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (_ *App, err error) {
	a := &App{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// Storage
	// ─────────────────────────────────────────────────────────────────────────
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, st.close)

	// ─────────────────────────────────────────────────────────────────────────
	// Sessions
	// ─────────────────────────────────────────────────────────────────────────
	sessions, sessionPing, closeSessions, err := openSessions(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeSessions)

	if pruner, ok := sessions.(jobs.SessionPruner); ok && cfg.Session.PruneInterval > 0 {
		a.Scheduler = scheduler.New(log)
		if err := a.Scheduler.Register(jobs.NewPruneSessionsJob(pruner, log), scheduler.Every(cfg.Session.PruneInterval)); err != nil {
			return nil, err
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Application layer
	// ─────────────────────────────────────────────────────────────────────────
	cat := catalog.Default()
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	welcome := notification.NewWelcomeSender(notification.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		Timeout:  cfg.SMTP.Timeout,
	}, log)

	health := handlers.NewCompositeHealthChecker(cfg.App.Version)
	health.AddCheck("storage", st.ping)
	if sessionPing != nil {
		health.AddCheck("sessions", sessionPing)
	}

	a.Server, err = httpserver.NewServer(httpConfig(cfg), httpserver.Dependencies{
		Auth:            auth.NewManager(st.accounts, sessions, hasher, log),
		RegisterAccount: command.NewRegisterAccountHandler(st.accounts, hasher, welcome, log),
		UpdateProgress:  command.NewUpdateProgressHandler(st.progress, log),
		GetDashboard:    query.NewGetDashboardHandler(cat, st.accounts, st.progress),
		GetCareerDetail: query.NewGetCareerDetailHandler(cat, st.progress),
		GetProfile:      query.NewGetProfileHandler(cat, st.accounts, st.progress, nil),
		HealthChecker:   health,
		Logger:          log,
	})
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
// within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := a.Server.StartAsync()
	if a.Scheduler != nil {
		if err := a.Scheduler.Start(ctx); err != nil {
			a.Logger.Warn("background jobs not started", logger.Err(err))
		}
	}

	a.Logger.Info("Career Path Builder is running",
		logger.String("address", a.Server.Address()),
		logger.String("env", string(a.Config.App.Environment)),
		logger.StorageBackend(a.Config.Storage.Backend),
	)

	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("received shutdown signal")
	case err, ok := <-errCh:
		if ok && err != nil {
			a.Logger.Error("http server failed", logger.Err(err))
			runErr = err
		}
	}

	a.Logger.Info("starting graceful shutdown", logger.Duration("timeout", a.Config.App.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.App.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("failed to stop HTTP server gracefully", logger.Err(err))
		runErr = errors.Join(runErr, err)
	}
	if a.Scheduler != nil && a.Scheduler.IsRunning() {
		_ = a.Scheduler.Stop()
	}
	a.Close()

	if runErr == nil {
		a.Logger.Info("shutdown completed successfully")
	}
	return runErr
}

// Close releases storage and session resources. Safe to call twice.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Migrate applies SQL migrations for the configured backend and reports how
// many were newly applied. The json backend has nothing to migrate.
func Migrate(ctx context.Context, cfg *config.Config, log *logger.Logger) (int, error) {
	switch cfg.Storage.Backend {
	case config.BackendJSON:
		return 0, nil
	case config.BackendSQLite:
		db, err := sqlite.OpenDB(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return 0, err
		}
		defer db.Close()
		return 0, sqlite.Migrate(ctx, db)
	case config.BackendPostgres:
		conn, err := connectPostgres(ctx, cfg, log)
		if err != nil {
			return 0, err
		}
		defer conn.Close()
		return postgres.NewMigrator(conn).Migrate(ctx)
	default:
		return 0, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// WIRING HELPERS
// ══════════════════════════════════════════════════════════════════════════════

type storage struct {
	accounts account.Repository
	progress progress.Repository
	ping     handlers.HealthCheckFunc
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	clock := timeutil.Now
	log = log.With(logger.StorageBackend(cfg.Storage.Backend))

	switch cfg.Storage.Backend {
	case config.BackendJSON:
		dir := cfg.Storage.DataDir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		opts := []jsonfile.Option{jsonfile.WithLogger(log), jsonfile.WithClock(clock)}
		log.Info("using json file storage", logger.String("data_dir", dir))
		return &storage{
			accounts: jsonfile.NewAccountStore(dir, opts...),
			progress: jsonfile.NewProgressStore(dir, opts...),
			ping: func(context.Context) error {
				_, err := os.Stat(dir)
				return err
			},
			close: func() {},
		}, nil

	case config.BackendSQLite:
		db, err := sqlite.OpenDB(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("using sqlite storage", logger.String("path", cfg.Storage.SQLitePath))
		return &storage{
			accounts: sqlite.NewAccountRepository(db, clock),
			progress: sqlite.NewProgressRepository(db, clock),
			ping:     sqlPing(db),
			close:    func() { _ = db.Close() },
		}, nil

	case config.BackendPostgres:
		conn, err := connectPostgres(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if cfg.Storage.AutoMigrate {
			n, err := postgres.NewMigrator(conn).Migrate(ctx)
			if err != nil {
				conn.Close()
				return nil, err
			}
			log.Info("migrations completed", logger.Int("applied", n))
		}
		return &storage{
			accounts: postgres.NewAccountRepository(conn, clock),
			progress: postgres.NewProgressRepository(conn, clock),
			ping:     handlers.NewPingCheck(conn),
			close:    conn.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func connectPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*postgres.Connection, error) {
	opts := postgres.PoolOptions{
		MaxConns:        int32(cfg.Storage.MaxConns),
		MinConns:        int32(cfg.Storage.MinConns),
		MaxConnLifetime: cfg.Storage.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Storage.ConnMaxIdleTime,
	}

	log.Info("connecting to database")
	var conn *postgres.Connection
	err := retry.StartupRetrier(retryLogger(log, "postgres")).Do(ctx, func(ctx context.Context) error {
		c, err := postgres.NewConnectionFromURL(ctx, cfg.Storage.DatabaseURL, opts)
		if errors.Is(err, postgres.ErrInvalidURL) {
			return retry.Permanent(err)
		}
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("database connection established")
	return conn, nil
}

func openSessions(ctx context.Context, cfg *config.Config, log *logger.Logger) (session.Store, handlers.HealthCheckFunc, func(), error) {
	if !cfg.Redis.Enabled {
		log.Info("using in-memory session store")
		return memory.NewSessionStore(cfg.Session.MaxAge, nil), nil, func() {}, nil
	}

	log.Info("connecting to Redis", logger.String("addr", cfg.Redis.Addr))
	var cache *redis.Cache
	err := retry.StartupRetrier(retryLogger(log, "redis")).Do(ctx, func(ctx context.Context) error {
		c, err := redis.NewCache(ctx, redis.Config{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return err
		}
		cache = c
		return nil
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	store := redis.NewSessionStore(cache, cfg.Session.MaxAge)
	closeFn := func() {
		if err := cache.Close(); err != nil {
			log.Warn("failed to close redis client", logger.Err(err))
		}
	}
	return store, handlers.NewPingCheck(store), closeFn, nil
}

func retryLogger(log *logger.Logger, target string) func(int, error, time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		log.Warn("dependency not ready, retrying",
			logger.String("target", target),
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	}
}

func sqlPing(db *sql.DB) handlers.HealthCheckFunc {
	return db.PingContext
}

func httpConfig(cfg *config.Config) httpserver.Config {
	hc := httpserver.DefaultConfig()
	hc.Host = cfg.HTTP.Host
	hc.Port = cfg.HTTP.Port
	hc.ReadTimeout = cfg.HTTP.ReadTimeout
	hc.WriteTimeout = cfg.HTTP.WriteTimeout
	hc.IdleTimeout = cfg.HTTP.IdleTimeout
	hc.AllowedOrigins = cfg.HTTP.AllowedOrigins
	hc.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	hc.TrustProxy = cfg.HTTP.TrustProxy
	hc.SessionSecret = cfg.Session.Secret
	hc.SessionCookieName = cfg.Session.CookieName
	hc.SessionMaxAge = cfg.Session.MaxAge
	hc.SecureCookies = cfg.Session.Secure
	return hc
}
