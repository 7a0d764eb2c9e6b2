package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath-hub/career-path-builder/config"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{
			Name:            "career-path-builder",
			Environment:     config.EnvDevelopment,
			Version:         "test",
			ShutdownTimeout: 2 * time.Second,
		},
		HTTP: config.HTTPConfig{
			Host:         "127.0.0.1",
			Port:         0,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
		},
		Storage: config.StorageConfig{
			Backend:     backend,
			DataDir:     filepath.Join(t.TempDir(), "data"),
			SQLitePath:  filepath.Join(t.TempDir(), "careerpath.db"),
			AutoMigrate: true,
		},
		Session: config.SessionConfig{
			Secret:     "0123456789abcdef0123456789abcdef",
			CookieName: "careerpath_session",
			MaxAge:     time.Hour,
		},
		SMTP: config.SMTPConfig{Host: "smtp.example.com", Port: 587, Timeout: time.Second},
	}
}

func TestBuild_Backends(t *testing.T) {
	for _, backend := range []string{config.BackendJSON, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			a, err := Build(context.Background(), testConfig(t, backend), logger.Nop())
			require.NoError(t, err)
			t.Cleanup(a.Close)

			rec := httptest.NewRecorder()
			a.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"storage"`)
		})
	}
}

func TestBuild_SessionJanitor(t *testing.T) {
	cfg := testConfig(t, config.BackendJSON)
	a, err := Build(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	assert.Nil(t, a.Scheduler, "no janitor without a prune interval")

	cfg = testConfig(t, config.BackendJSON)
	cfg.Session.PruneInterval = time.Minute
	a, err = Build(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	require.NotNil(t, a.Scheduler)
	jobs := a.Scheduler.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "prune_sessions", jobs[0].Name)
	assert.Equal(t, "@every 1m0s", jobs[0].Schedule)
}

func TestBuild_UnknownBackend(t *testing.T) {
	_, err := Build(context.Background(), testConfig(t, "mongo"), logger.Nop())
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestRun_StopsOnCancel(t *testing.T) {
	a, err := Build(context.Background(), testConfig(t, config.BackendJSON), logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestMigrate(t *testing.T) {
	n, err := Migrate(context.Background(), testConfig(t, config.BackendJSON), logger.Nop())
	require.NoError(t, err)
	assert.Zero(t, n)

	cfg := testConfig(t, config.BackendSQLite)
	_, err = Migrate(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.FileExists(t, cfg.Storage.SQLitePath)
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(config.ObservabilityConfig{LogLevel: "warn", LogFormat: "text"}, &buf)

	log.Info("hidden")
	log.Warn("shown", logger.String("k", "v"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WARN shown")
	assert.Contains(t, buf.String(), "k=v")
}
