// Package memory provides an in-process session store for single-instance
// deployments and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/careerpath-hub/career-path-builder/internal/domain/session"
	"github.com/careerpath-hub/career-path-builder/pkg/timeutil"
)

// SessionStore keeps sessions in a map. Sessions older than ttl are
// treated as absent and dropped on access.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
	ttl      time.Duration
	clock    timeutil.Clock
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore creates an empty store. A zero ttl never expires sessions.
func NewSessionStore(ttl time.Duration, clock timeutil.Clock) *SessionStore {
	if clock == nil {
		clock = timeutil.Now
	}
	return &SessionStore{
		sessions: make(map[string]session.Session),
		ttl:      ttl,
		clock:    clock,
	}
}

// Save stores a copy of the session.
func (s *SessionStore) Save(_ context.Context, sess *session.Session) error {
	if sess == nil || sess.Token == "" {
		return fmt.Errorf("memory: session token is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = *sess
	return nil
}

// Get returns session.ErrNotFound for unknown or expired tokens.
func (s *SessionStore) Get(_ context.Context, token string) (*session.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, session.ErrNotFound
	}

	if s.ttl > 0 && s.clock().Sub(sess.CreatedAt) > s.ttl {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, session.ErrNotFound
	}
	return &sess, nil
}

// Delete removes the session; unknown tokens are ignored.
func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Prune drops expired sessions and reports how many were removed.
func (s *SessionStore) Prune(_ context.Context) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, sess := range s.sessions {
		if now.Sub(sess.CreatedAt) > s.ttl {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
