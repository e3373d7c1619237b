package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters
const (
	// Argon2Time is the number of passes over memory
	Argon2Time = 1
	// Argon2Memory is the memory cost in KiB (64 MiB)
	Argon2Memory = 64 * 1024
	// Argon2Threads is the degree of parallelism
	Argon2Threads = 4
	// Argon2KeyLen is the derived key length in bytes
	Argon2KeyLen = 32
	// SaltSize is the random salt length in bytes
	SaltSize = 16
)

// Upper bounds for parameters read from a stored hash
const (
	maxArgon2Memory = 1 << 20 // KiB, 1 GiB
	maxArgon2Time   = 16
	maxArgon2KeyLen = 128
)

// Argon2Hasher is a PasswordHasher backed by Argon2id.
// Output uses the PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
}

// NewArgon2Hasher creates an Argon2id hasher with the package defaults
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{
		time:    Argon2Time,
		memory:  Argon2Memory,
		threads: Argon2Threads,
		keyLen:  Argon2KeyLen,
	}
}

// Hash derives a key from password and a fresh random salt
func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify re-derives the key with the parameters stored in hash
func (h *Argon2Hasher) Verify(password, hash string) bool {
	// "", "argon2id", "v=19", "m=...,t=...,p=...", salt, key
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}
	if iterations == 0 || threads == 0 || iterations > maxArgon2Time || memory > maxArgon2Memory {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 || len(want) > maxArgon2KeyLen {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1
}
