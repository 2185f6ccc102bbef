// Package password hashes and verifies user passwords.
package password

import (
	"errors"
	"fmt"
	"strings"
)

// Algorithm names a password hashing algorithm
type Algorithm string

const (
	AlgorithmBcrypt Algorithm = "bcrypt"
	AlgorithmArgon2 Algorithm = "argon2"
)

// ErrHashingFault is returned when a hash cannot be computed. It never
// signals a problem with the password itself.
var ErrHashingFault = errors.New("password hashing failed")

// Hasher defines the interface for password hashing implementations
type Hasher interface {
	// Hash returns a salted one-way hash. Two calls with the same input
	// return different values.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches the stored hash. A malformed
	// stored hash is a mismatch, not an error.
	Verify(plaintext, stored string) bool
}

// Config selects and tunes the hasher built by NewHasher
type Config struct {
	Algorithm  Algorithm
	BcryptCost int
}

// NewHasher creates the hasher named by cfg.Algorithm. An empty algorithm
// selects bcrypt.
func NewHasher(cfg Config) (Hasher, error) {
	switch Algorithm(strings.ToLower(string(cfg.Algorithm))) {
	case "", AlgorithmBcrypt:
		return NewBcryptHasher(cfg.BcryptCost)
	case AlgorithmArgon2:
		return NewArgon2Hasher(), nil
	default:
		return nil, fmt.Errorf("unsupported password hasher %q", cfg.Algorithm)
	}
}
