// Package security provides password hashing for account credentials.
package security

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/careerpath-hub/career-path-builder/internal/domain/account"
)

// bcrypt only reads the first 72 bytes of its input.
const bcryptMaxInput = 72

// BcryptHasher hashes passwords with bcrypt. Passwords longer than bcrypt
// accepts are reduced to a SHA-256 digest first so every byte counts.
// Legacy pbkdf2 and scrypt hashes are still accepted by Verify.
type BcryptHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

var _ account.PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a hasher with the given cost. Costs outside the
// range bcrypt accepts fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("security: hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether password matches hash. Comparison is constant time.
func (h *BcryptHasher) Verify(hash, password string) bool {
	if hash == "" {
		return false
	}
	if isLegacyHash(hash) {
		return verifyLegacy(hash, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

// VerifyDummy runs a comparison against a throwaway hash of the same cost.
// Login calls it for unknown emails so both failure paths take equal time.
func (h *BcryptHasher) VerifyDummy(password string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("career-path-builder"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, bcryptInput(password))
}

func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// Cost returns the configured bcrypt cost.
func (h *BcryptHasher) Cost() int {
	return h.cost
}
