// Package session defines the runtime proof that a request acts on behalf
// of a specific account, and the store that keeps it.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores for unknown or expired tokens.
var ErrNotFound = errors.New("session: not found")

// Session binds an opaque token to an account id.
type Session struct {
	Token     string    `json:"token"`
	AccountID string    `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps active sessions.
type Store interface {
	// Save stores the session under its token.
	Save(ctx context.Context, s *Session) error

	// Get returns ErrNotFound when the token is unknown.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes the session. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}
