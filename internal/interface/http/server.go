// Package http serves the Career Path Builder web pages, the progress update
// endpoint and the health checks.
package http

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/cors"

	"github.com/careerpath-hub/career-path-builder/internal/application/auth"
	"github.com/careerpath-hub/career-path-builder/internal/application/command"
	"github.com/careerpath-hub/career-path-builder/internal/application/query"
	"github.com/careerpath-hub/career-path-builder/internal/interface/http/handlers"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "0.0.0.0").
	Host string

	// Port - port to listen on (default: 5000).
	Port int

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// MaxBodyBytes caps form submissions.
	MaxBodyBytes int64

	// AllowedOrigins enables CORS for the listed origins. Empty disables it.
	AllowedOrigins []string

	// RateLimitPerMinute - requests per minute per IP (0 = disabled).
	RateLimitPerMinute int

	// TrustProxy makes X-Forwarded-For and X-Real-IP authoritative for the
	// client address.
	TrustProxy bool

	// SessionSecret signs the session cookie. Required.
	SessionSecret     string
	SessionCookieName string
	SessionMaxAge     time.Duration
	SecureCookies     bool
}

// DefaultConfig returns default server configuration without a session secret.
func DefaultConfig() Config {
	return Config{
		Host:               "0.0.0.0",
		Port:               5000,
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		IdleTimeout:        60 * time.Second,
		MaxHeaderBytes:     1 << 20,
		MaxBodyBytes:       64 << 10,
		RateLimitPerMinute: 300,
		SessionCookieName:  "careerpath_session",
		SessionMaxAge:      7 * 24 * time.Hour,
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains all dependencies required by HTTP handlers.
type Dependencies struct {
	Auth *auth.Manager

	// Command Handlers (CQRS Write Side)
	RegisterAccount *command.RegisterAccountHandler
	UpdateProgress  *command.UpdateProgressHandler

	// Query Handlers (CQRS Read Side)
	GetDashboard    *query.GetDashboardHandler
	GetCareerDetail *query.GetCareerDetailHandler
	GetProfile      *query.GetProfileHandler

	HealthChecker handlers.HealthChecker
	Logger        *logger.Logger
}

func (d Dependencies) validate() error {
	switch {
	case d.Auth == nil:
		return errors.New("http: auth manager is required")
	case d.RegisterAccount == nil, d.UpdateProgress == nil:
		return errors.New("http: command handlers are required")
	case d.GetDashboard == nil, d.GetCareerDetail == nil, d.GetProfile == nil:
		return errors.New("http: query handlers are required")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server represents the HTTP server.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	logger     *logger.Logger
	pages      *renderer
	cookies    *cookieSessions

	rateLimiter *rateLimiter

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a new HTTP server with the given configuration and dependencies.
func NewServer(config Config, deps Dependencies) (*Server, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if config.SessionSecret == "" {
		return nil, errors.New("http: session secret is required")
	}
	if config.SessionCookieName == "" {
		config.SessionCookieName = DefaultConfig().SessionCookieName
	}

	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:  config,
		deps:    deps,
		router:  http.NewServeMux(),
		logger:  deps.Logger,
		pages:   pages,
		cookies: newCookieSessions(config),
	}
	if s.logger == nil {
		s.logger = logger.Default()
	}
	s.logger = s.logger.With(logger.Component("http"))

	if config.RateLimitPerMinute > 0 {
		s.rateLimiter = newRateLimiter(config.RateLimitPerMinute, time.Minute)
	}

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	s.handler = s.buildMiddlewareChain(s.router)

	s.httpServer = &http.Server{
		Addr:           config.Address(),
		Handler:        s.handler,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}

	return s, nil
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) setupRoutes() error {
	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status Endpoints
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /healthz", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /live", s.handleLive)

	// ─────────────────────────────────────────────────────────────────────────
	// Static Assets
	// ─────────────────────────────────────────────────────────────────────────
	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("http: static assets: %w", err)
	}
	s.router.Handle("GET /static/",
		handlers.CacheControlMiddleware(time.Hour)(http.StripPrefix("/static/", http.FileServerFS(assets))))

	// ─────────────────────────────────────────────────────────────────────────
	// Public Pages
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /{$}", s.handleIndex)
	s.router.HandleFunc("GET /register", s.handleRegisterForm)
	s.router.HandleFunc("POST /register", s.handleRegister)
	s.router.HandleFunc("GET /login", s.handleLoginForm)
	s.router.HandleFunc("POST /login", s.handleLogin)

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated Pages
	// ─────────────────────────────────────────────────────────────────────────
	private := func(h http.HandlerFunc) http.Handler {
		return handlers.NoCacheMiddleware(s.requireAuth(h))
	}
	s.router.Handle("GET /logout", private(s.handleLogout))
	s.router.Handle("GET /dashboard", private(s.handleDashboard))
	s.router.Handle("GET /career/{career_id}", private(s.handleCareer))
	s.router.Handle("POST /update_progress", private(s.handleUpdateProgress))
	s.router.Handle("GET /profile", private(s.handleProfile))

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE CHAIN
// ══════════════════════════════════════════════════════════════════════════════

// buildMiddlewareChain wraps the router; the first middleware is the outermost.
func (s *Server) buildMiddlewareChain(h http.Handler) http.Handler {
	chain := []handlers.MiddlewareFunc{
		s.requestIDMiddleware,
		s.loggingMiddleware,
		s.recoveryMiddleware,
		handlers.SecurityHeadersMiddleware,
	}

	if len(s.config.AllowedOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins:   s.config.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
		})
		chain = append(chain, c.Handler)
	}

	if s.rateLimiter != nil {
		chain = append(chain, s.rateLimitMiddleware)
	}
	if s.config.MaxBodyBytes > 0 {
		chain = append(chain, handlers.RequestSizeLimitMiddleware(s.config.MaxBodyBytes))
	}

	return handlers.Chain(chain...)(h)
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// StartAsync starts the server in a goroutine. The channel receives a
// non-nil error if the listener fails and is closed when it stops.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	// Shutdown also runs when Start has not been reached yet, so a late
	// ListenAndServe returns http.ErrServerClosed.
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Uptime returns the server uptime.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startedAt)
}

// Address returns the server address.
func (s *Server) Address() string {
	return s.config.Address()
}
