package security

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// Accounts created before the switch to bcrypt carry hashes of the form
// "method$salt$hexdigest", where method is "pbkdf2:<digest>[:<iterations>]"
// or "scrypt[:<n>:<r>:<p>]". They are verified here and never produced.

const (
	legacyPBKDF2Iterations = 600000
	legacyScryptN          = 1 << 15
	legacyScryptR          = 8
	legacyScryptP          = 1
	legacyScryptKeyLen     = 64
)

func isLegacyHash(h string) bool {
	return strings.HasPrefix(h, "pbkdf2:") || strings.HasPrefix(h, "scrypt")
}

// verifyLegacy reports whether password matches a legacy hash. Malformed
// hashes never match.
func verifyLegacy(encoded, password string) bool {
	method, rest, ok := strings.Cut(encoded, "$")
	if !ok {
		return false
	}
	salt, digestHex, ok := strings.Cut(rest, "$")
	if !ok || salt == "" {
		return false
	}
	want, err := hex.DecodeString(digestHex)
	if err != nil || len(want) == 0 {
		return false
	}

	got, ok := deriveLegacy(method, []byte(password), []byte(salt), len(want))
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}

func deriveLegacy(method string, password, salt []byte, keyLen int) ([]byte, bool) {
	parts := strings.Split(method, ":")
	switch parts[0] {
	case "pbkdf2":
		if len(parts) < 2 || len(parts) > 3 {
			return nil, false
		}
		newHash := digestFunc(parts[1])
		if newHash == nil {
			return nil, false
		}
		iter := legacyPBKDF2Iterations
		if len(parts) == 3 {
			n, err := strconv.Atoi(parts[2])
			if err != nil || n <= 0 {
				return nil, false
			}
			iter = n
		}
		return pbkdf2.Key(password, salt, iter, keyLen, newHash), true

	case "scrypt":
		n, r, p := legacyScryptN, legacyScryptR, legacyScryptP
		switch len(parts) {
		case 1:
		case 4:
			var err error
			if n, err = strconv.Atoi(parts[1]); err != nil {
				return nil, false
			}
			if r, err = strconv.Atoi(parts[2]); err != nil {
				return nil, false
			}
			if p, err = strconv.Atoi(parts[3]); err != nil {
				return nil, false
			}
		default:
			return nil, false
		}
		if keyLen != legacyScryptKeyLen {
			return nil, false
		}
		key, err := scrypt.Key(password, salt, n, r, p, keyLen)
		if err != nil {
			return nil, false
		}
		return key, true
	}
	return nil, false
}

func digestFunc(name string) func() hash.Hash {
	switch name {
	case "sha256":
		return sha256.New
	case "sha512":
		return sha512.New
	case "sha1":
		return sha1.New
	}
	return nil
}
