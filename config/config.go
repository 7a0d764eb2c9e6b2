// Package config loads Career Path Builder settings from the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Storage backends.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// minSecretLength applies to SESSION_SECRET outside development.
const minSecretLength = 32

// Config holds all application configuration.
type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Storage       StorageConfig
	Redis         RedisConfig
	Session       SessionConfig
	SMTP          SMTPConfig
	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration
}

// HTTPConfig holds web server settings.
type HTTPConfig struct {
	Host               string
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	AllowedOrigins     []string
	RateLimitPerMinute int
	TrustProxy         bool
}

// StorageConfig selects and configures the account and progress stores.
type StorageConfig struct {
	// Backend is one of json, sqlite or postgres.
	Backend string

	// DataDir holds users.json and progress.json for the json backend.
	DataDir string

	SQLitePath string

	// DatabaseURL is a postgres:// connection string.
	DatabaseURL     string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// AutoMigrate applies SQL migrations when the server starts.
	AutoMigrate bool
}

// RedisConfig holds the optional session store connection.
type RedisConfig struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SessionConfig holds cookie and session store settings.
type SessionConfig struct {
	Secret     string
	CookieName string
	MaxAge     time.Duration
	Secure     bool

	// PruneInterval is how often expired in-memory sessions are dropped.
	PruneInterval time.Duration

	// Generated is set when Secret was created at startup because none was
	// configured. Sessions then do not survive a restart.
	Generated bool
}

// SMTPConfig holds the welcome email relay. Credentials have no defaults.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Load reads a .env file from the working directory when present, then
// loads configuration from environment variables.
func Load() (*Config, error) {
	return LoadFiles()
}

// LoadFiles is Load with explicit dotenv files. Missing files are an error.
// With no files it falls back to an optional ./.env. Variables already set
// in the environment win over file values.
func LoadFiles(files ...string) (*Config, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("dotenv: %w", err)
		}
	}
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, fmt.Errorf("dotenv: %w", err)
		}
	}

	cfg := &Config{}
	cfg.App = loadAppConfig()
	cfg.HTTP = loadHTTPConfig()
	cfg.Storage = loadStorageConfig()
	cfg.Redis = loadRedisConfig()
	cfg.SMTP = loadSMTPConfig()
	cfg.Observability = loadObservabilityConfig()

	var err error
	cfg.Session, err = loadSessionConfig(cfg.App.Environment)
	if err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func loadAppConfig() AppConfig {
	env := Environment(getEnv("APP_ENV", string(EnvDevelopment)))

	return AppConfig{
		Name:            getEnv("APP_NAME", "career-path-builder"),
		Environment:     env,
		Debug:           env == EnvDevelopment || getEnvBool("APP_DEBUG", false),
		Version:         getEnv("APP_VERSION", "0.1.0"),
		ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func loadHTTPConfig() HTTPConfig {
	port := getEnvInt("HTTP_PORT", 0)
	if port == 0 {
		port = getEnvInt("PORT", 5000)
	}

	return HTTPConfig{
		Host:               getEnv("HTTP_HOST", "0.0.0.0"),
		Port:               port,
		ReadTimeout:        getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:        getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		AllowedOrigins:     getEnvStringSlice("CORS_ALLOWED_ORIGINS", nil),
		RateLimitPerMinute: getEnvInt("HTTP_RATE_LIMIT_PER_MINUTE", 300),
		TrustProxy:         getEnvBool("HTTP_TRUST_PROXY", false),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Backend:         strings.ToLower(getEnv("STORAGE_BACKEND", BackendJSON)),
		DataDir:         getEnv("DATA_DIR", "."),
		SQLitePath:      getEnv("SQLITE_PATH", "data/careerpath.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MaxConns:        getEnvInt("DB_MAX_CONNS", 10),
		MinConns:        getEnvInt("DB_MIN_CONNS", 1),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:      getEnvBool("REDIS_ENABLED", false),
		Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
		Password:     getEnv("REDIS_PASSWORD", ""),
		DB:           getEnvInt("REDIS_DB", 0),
		PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
		DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
	}
}

func loadSessionConfig(env Environment) (SessionConfig, error) {
	cfg := SessionConfig{
		Secret:     getEnv("SESSION_SECRET", ""),
		CookieName: getEnv("SESSION_COOKIE_NAME", "careerpath_session"),
		MaxAge:     getEnvDuration("SESSION_MAX_AGE", 7*24*time.Hour),
		Secure:     getEnvBool("SESSION_COOKIE_SECURE", env == EnvProduction),

		PruneInterval: getEnvDuration("SESSION_PRUNE_INTERVAL", 10*time.Minute),
	}

	if cfg.Secret == "" && env == EnvDevelopment {
		secret, err := randomSecret()
		if err != nil {
			return cfg, err
		}
		cfg.Secret = secret
		cfg.Generated = true
	}
	return cfg, nil
}

func loadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port:     getEnvInt("SMTP_PORT", 587),
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", ""),
		Timeout:  getEnvDuration("SMTP_TIMEOUT", 10*time.Second),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	switch c.App.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Sprintf("APP_ENV %q is not one of development, staging, production", c.App.Environment))
	}

	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		errs = append(errs, "HTTP_PORT must be 1-65535")
	}

	switch c.Storage.Backend {
	case BackendJSON:
		if c.Storage.DataDir == "" {
			errs = append(errs, "DATA_DIR is required for the json backend")
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, "SQLITE_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("STORAGE_BACKEND %q is not one of json, sqlite, postgres", c.Storage.Backend))
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "REDIS_ADDR is required when REDIS_ENABLED is set")
	}

	switch {
	case c.Session.Secret == "":
		errs = append(errs, "SESSION_SECRET is required outside development")
	case !c.IsDevelopment() && len(c.Session.Secret) < minSecretLength:
		errs = append(errs, fmt.Sprintf("SESSION_SECRET must be at least %d characters", minSecretLength))
	}

	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		errs = append(errs, "SMTP_PORT must be 1-65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvStringSlice(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
