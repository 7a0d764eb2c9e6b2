package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/careerpath-hub/career-path-builder/internal/domain/session"
)

// SessionStore keeps sessions under session:<token> with a TTL.
type SessionStore struct {
	cache *Cache
	ttl   time.Duration
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore creates a store. ttl should match the cookie max age;
// zero keeps sessions until logout.
func NewSessionStore(cache *Cache, ttl time.Duration) *SessionStore {
	if ttl < 0 {
		ttl = 0
	}
	return &SessionStore{cache: cache, ttl: ttl}
}

// Save stores the session under its token.
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	if sess == nil || sess.Token == "" {
		return fmt.Errorf("redis: session token is required")
	}
	if err := s.cache.Set(ctx, SessionKey(sess.Token), sess, s.ttl); err != nil {
		return fmt.Errorf("redis: save session: %w", err)
	}
	return nil
}

// Get returns session.ErrNotFound for unknown or expired tokens.
func (s *SessionStore) Get(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return nil, session.ErrNotFound
	}

	var sess session.Session
	err := s.cache.Get(ctx, SessionKey(token), &sess)
	if errors.Is(err, ErrCacheMiss) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get session: %w", err)
	}
	return &sess, nil
}

// Delete removes the session; unknown tokens are ignored.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.cache.Delete(ctx, SessionKey(token)); err != nil {
		return fmt.Errorf("redis: delete session: %w", err)
	}
	return nil
}

// Ping checks the underlying connection.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}
