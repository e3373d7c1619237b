// Package crypto provides password hashing for stored credentials.
//
// Hashes are self-describing strings: the algorithm, cost parameters and salt
// are embedded in the output, so Verify needs nothing but the stored value.
package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// HasherBcrypt selects BcryptHasher
	HasherBcrypt = "bcrypt"
	// HasherArgon2id selects Argon2Hasher
	HasherArgon2id = "argon2id"

	// DefaultBcryptCost matches the work factor of the historical deployment (gensalt default)
	DefaultBcryptCost = 12

	// MaxBcryptPasswordLen is the number of input bytes bcrypt reads
	MaxBcryptPasswordLen = 72
)

// ErrPasswordTooLong is returned for inputs bcrypt would silently truncate
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// PasswordHasher hashes and verifies plaintext passwords.
// Hash is randomized: two calls with the same input give different outputs.
// Verify reports false both for a wrong password and for a malformed hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// NewHasher builds the hasher named by the configuration
func NewHasher(name string, bcryptCost int) (PasswordHasher, error) {
	switch name {
	case HasherBcrypt, "":
		return NewBcryptHasher(bcryptCost)
	case HasherArgon2id:
		return NewArgon2Hasher(), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// BcryptHasher is a PasswordHasher backed by bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher with the given cost
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash returns a bcrypt hash with a fresh random salt
func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > MaxBcryptPasswordLen {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashed), nil
}

// Verify compares in constant time under the salt and cost embedded in hash.
// Inputs longer than bcrypt reads never match: otherwise any suffix appended
// to a 72-byte password would verify.
func (h *BcryptHasher) Verify(password, hash string) bool {
	if len(password) > MaxBcryptPasswordLen {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
