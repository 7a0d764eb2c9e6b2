package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, "pw123", hash)
	assert.NotContains(t, hash, "pw123")
	assert.True(t, strings.HasPrefix(hash, "$2"))
	assert.True(t, h.Verify(hash, "pw123"))
	assert.False(t, h.Verify(hash, "pw124"))
	assert.False(t, h.Verify(hash, ""))
}

func TestBcryptHasher_SaltsEachHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify(a, "same"))
	assert.True(t, h.Verify(b, "same"))
}

func TestBcryptHasher_VerifyRejectsGarbage(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("", "pw"))
	assert.False(t, h.Verify("not-a-hash", "pw"))
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).Cost())
	assert.Equal(t, 12, NewBcryptHasher(12).Cost())
}

func TestBcryptHasher_VerifyDummy(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	assert.NotPanics(t, func() {
		h.VerifyDummy("anything")
		h.VerifyDummy("again")
	})
}

func TestBcryptHasher_LongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	long := strings.Repeat("a", 80)

	hash, err := h.Hash(long)
	require.NoError(t, err)

	assert.True(t, h.Verify(hash, long))
	assert.False(t, h.Verify(hash, strings.Repeat("a", 72)), "bytes past 72 must count")
	assert.False(t, h.Verify(hash, long+"b"))
}

func TestBcryptHasher_ShortPasswordHashIsPlainBcrypt(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	pw := strings.Repeat("x", 72)

	hash, err := h.Hash(pw)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)))
}

func TestBcryptHasher_VerifiesLegacyHashes(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	tests := []struct {
		name string
		hash string
	}{
		{"pbkdf2", "pbkdf2:sha256:1000$Xk3pQ9aZ$11823269ae026a3f1d656ae64b9fe5390e70d9d984b420354c514d723e0c273a"},
		{"scrypt", "scrypt:1024:8:1$R7tYu2Lm$06cd586a2936d36b869591e504326688640891ab08c5987e90f86d2610a97e5019682836b73e49fa40c4094920c7bcb8d72a0ad99bad40bfc4746070d5a3f0a7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, h.Verify(tt.hash, "pw123"))
			assert.False(t, h.Verify(tt.hash, "pw124"))
		})
	}
}

func TestBcryptHasher_RejectsMalformedLegacyHashes(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, hash := range []string{
		"pbkdf2:sha256:1000",
		"pbkdf2:md5:1000$salt$00ff",
		"pbkdf2:sha256:abc$salt$00ff",
		"pbkdf2:sha256:1000$salt$zz",
		"scrypt:1:2$salt$00ff",
	} {
		assert.False(t, h.Verify(hash, "pw123"), hash)
	}
}
