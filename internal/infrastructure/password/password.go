// Package password implements the credential hasher. New hashes use the
// configured algorithm; verification accepts any supported format so stored
// hashes keep working after the algorithm is switched.
package password

import (
	"fmt"
	"strings"
)

// Supported algorithm names, as accepted by HASH_ALGORITHM.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

type scheme interface {
	hash(plaintext string) (string, error)
	verify(plaintext, hash string) bool
	owns(hash string) bool
}

// Hasher satisfies ports.PasswordHasher.
type Hasher struct {
	primary scheme
	schemes []scheme
}

// Options tunes the hasher. Zero values select the defaults.
type Options struct {
	Algorithm  string
	BcryptCost int
	Argon2     Argon2Params
}

// New builds a Hasher for the named algorithm.
func New(opts Options) (*Hasher, error) {
	b := newBcrypt(opts.BcryptCost)
	a := newArgon2(opts.Argon2)

	h := &Hasher{schemes: []scheme{b, a}}
	switch strings.ToLower(strings.TrimSpace(opts.Algorithm)) {
	case "", AlgorithmBcrypt:
		h.primary = b
	case AlgorithmArgon2id:
		h.primary = a
	default:
		return nil, fmt.Errorf("password: unsupported algorithm %q", opts.Algorithm)
	}
	return h, nil
}

// Hash returns a salted one-way hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	out, err := h.primary.hash(plaintext)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return out, nil
}

// Verify reports whether plaintext matches hash. Unknown or malformed hashes
// never match.
func (h *Hasher) Verify(plaintext, hash string) bool {
	for _, s := range h.schemes {
		if s.owns(hash) {
			return s.verify(plaintext, hash)
		}
	}
	return false
}
