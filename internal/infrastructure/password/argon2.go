package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argonPrefix = "$argon2id$"

// Argon2Params are the Argon2id cost settings.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultArgon2Params follow the OWASP baseline.
var DefaultArgon2Params = Argon2Params{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
}

// Stored parameters outside these bounds are treated as corrupt rather than
// honoured.
const (
	maxArgon2Time   = 16
	maxArgon2Memory = 1 << 20 // KiB
	maxArgon2KeyLen = 128
)

var errMalformedHash = errors.New("malformed argon2id hash")

type argon2Scheme struct {
	p Argon2Params
}

func newArgon2(p Argon2Params) *argon2Scheme {
	d := DefaultArgon2Params
	if p.Time == 0 || p.Time > maxArgon2Time {
		p.Time = d.Time
	}
	if p.Memory == 0 || p.Memory > maxArgon2Memory {
		p.Memory = d.Memory
	}
	if p.Threads == 0 {
		p.Threads = d.Threads
	}
	if p.KeyLen == 0 || p.KeyLen > maxArgon2KeyLen {
		p.KeyLen = d.KeyLen
	}
	if p.SaltLen == 0 {
		p.SaltLen = d.SaltLen
	}
	return &argon2Scheme{p: p}
}

// hash encodes as PHC: $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>
func (a *argon2Scheme) hash(plaintext string) (string, error) {
	salt := make([]byte, a.p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, a.p.Time, a.p.Memory, a.p.Threads, a.p.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.p.Memory, a.p.Time, a.p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (a *argon2Scheme) verify(plaintext, encoded string) bool {
	salt, key, p, err := decodePHC(encoded)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey([]byte(plaintext), salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

func (a *argon2Scheme) owns(hash string) bool {
	return strings.HasPrefix(hash, argonPrefix)
}

func decodePHC(encoded string) (salt, key []byte, p Argon2Params, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, p, errMalformedHash
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, p, errMalformedHash
	}
	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return nil, nil, p, errMalformedHash
	}
	if p.Threads == 0 || p.Time == 0 || p.Time > maxArgon2Time || p.Memory == 0 || p.Memory > maxArgon2Memory {
		return nil, nil, p, errMalformedHash
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, p, errMalformedHash
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(key) == 0 || len(key) > maxArgon2KeyLen {
		return nil, nil, p, errMalformedHash
	}
	return salt, key, p, nil
}
