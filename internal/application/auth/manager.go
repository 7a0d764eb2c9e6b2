// Package auth establishes and checks logged-in identities.
//
// A browser moves from anonymous to authenticated through Login and back
// through Logout. Every account-scoped request resolves its account id with
// RequireAuthenticated and passes it on explicitly.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/careerpath-hub/career-path-builder/internal/domain/account"
	"github.com/careerpath-hub/career-path-builder/internal/domain/session"
	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
	"github.com/careerpath-hub/career-path-builder/pkg/timeutil"
)

// dummyVerifier is implemented by hashers that can burn the same time as a
// real verification without a stored hash.
type dummyVerifier interface {
	VerifyDummy(password string)
}

// Manager implements the session state machine.
type Manager struct {
	accounts account.Repository
	sessions session.Store
	hasher   account.PasswordHasher
	log      *logger.Logger
	clock    timeutil.Clock
	newToken func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the clock used to stamp sessions.
func WithClock(c timeutil.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithTokenGenerator overrides session token generation.
func WithTokenGenerator(fn func() string) Option {
	return func(m *Manager) { m.newToken = fn }
}

// NewManager creates a Manager.
func NewManager(
	accounts account.Repository,
	sessions session.Store,
	hasher account.PasswordHasher,
	log *logger.Logger,
	opts ...Option,
) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	m := &Manager{
		accounts: accounts,
		sessions: sessions,
		hasher:   hasher,
		log:      log.With(logger.Component("auth")),
		clock:    timeutil.Now,
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login checks the credentials and opens a session. Both fields are trimmed
// the same way registration trims them.
// Unknown email and wrong password both yield shared.ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, email, password string) (*session.Session, error) {
	email = account.NormalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" {
		return nil, shared.NewValidationError("auth", "email")
	}
	if password == "" {
		return nil, shared.NewValidationError("auth", "password")
	}

	acc, err := m.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: find account: %w", err)
	}
	if acc == nil {
		if dv, ok := m.hasher.(dummyVerifier); ok {
			dv.VerifyDummy(password)
		}
		m.log.Info("login failed", logger.String("reason", "unknown email"))
		return nil, shared.ErrInvalidCredentials
	}
	if !m.hasher.Verify(acc.PasswordHash, password) {
		m.log.Info("login failed", logger.AccountID(acc.ID), logger.String("reason", "password mismatch"))
		return nil, shared.ErrInvalidCredentials
	}

	sess := &session.Session{
		Token:     m.newToken(),
		AccountID: acc.ID,
		CreatedAt: m.clock(),
	}
	if err := m.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("auth: save session: %w", err)
	}

	m.log.Info("login succeeded", logger.AccountID(acc.ID))
	return sess, nil
}

// RequireAuthenticated resolves the account id bound to token.
// It returns shared.ErrUnauthenticated when the token is empty, unknown, or
// points at an account that no longer exists.
func (m *Manager) RequireAuthenticated(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", shared.ErrUnauthenticated
	}

	sess, err := m.sessions.Get(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return "", shared.ErrUnauthenticated
	}
	if err != nil {
		return "", fmt.Errorf("auth: load session: %w", err)
	}

	if _, err := m.accounts.GetByID(ctx, sess.AccountID); err != nil {
		if shared.IsNotFound(err) {
			_ = m.sessions.Delete(ctx, token)
			m.log.Warn("session for missing account dropped", logger.AccountID(sess.AccountID))
			return "", shared.ErrUnauthenticated
		}
		return "", fmt.Errorf("auth: load account: %w", err)
	}
	return sess.AccountID, nil
}

// Logout ends the session. Unknown and empty tokens are ignored.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("auth: delete session: %w", err)
	}
	return nil
}
