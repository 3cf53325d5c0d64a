package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/accessdesk/user-directory/internal/core/domain"
)

// cheap argon2 settings keep the suite fast
var testArgon2 = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1}

func newTestHasher(t *testing.T, algorithm string) *Hasher {
	t.Helper()
	h, err := New(Options{Algorithm: algorithm, BcryptCost: bcrypt.MinCost, Argon2: testArgon2})
	if err != nil {
		t.Fatalf("New(%q): %v", algorithm, err)
	}
	return h
}

func TestHasher_RoundTrip(t *testing.T) {
	for _, alg := range []string{AlgorithmBcrypt, AlgorithmArgon2id} {
		t.Run(alg, func(t *testing.T) {
			h := newTestHasher(t, alg)

			hash, err := h.Hash("s3cret")
			if err != nil {
				t.Fatalf("Hash: %v", err)
			}
			if hash == "" || hash == "s3cret" {
				t.Fatalf("hash must differ from plaintext, got %q", hash)
			}
			if !h.Verify("s3cret", hash) {
				t.Fatalf("expected password to verify")
			}
			if h.Verify("s3creT", hash) {
				t.Fatalf("expected wrong password to be rejected")
			}
		})
	}
}

func TestHasher_Salted(t *testing.T) {
	h := newTestHasher(t, AlgorithmArgon2id)

	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected distinct salted hashes")
	}
}

func TestHasher_VerifiesOtherAlgorithm(t *testing.T) {
	bc := newTestHasher(t, AlgorithmBcrypt)
	ar := newTestHasher(t, AlgorithmArgon2id)

	legacy, err := bc.Hash("pw")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !ar.Verify("pw", legacy) {
		t.Fatalf("argon2id hasher should still verify bcrypt hashes")
	}

	fresh, _ := ar.Hash("pw")
	if !strings.HasPrefix(fresh, argonPrefix) {
		t.Fatalf("expected argon2id hash, got %q", fresh)
	}
}

func TestHasher_MalformedHashNeverMatches(t *testing.T) {
	h := newTestHasher(t, AlgorithmBcrypt)

	for _, hash := range []string{"", "pw", "$argon2id$v=19$broken", "$2a$04$short"} {
		if h.Verify("pw", hash) {
			t.Fatalf("malformed hash %q should not verify", hash)
		}
	}
}

func TestHasher_ArgonParamsOutOfBoundsNeverMatch(t *testing.T) {
	h := newTestHasher(t, AlgorithmArgon2id)

	good, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	parts := strings.Split(good, "$")

	for _, params := range []string{
		"m=8192,t=1,p=0",
		"m=0,t=1,p=1",
		"m=4294967295,t=1,p=1",
		"m=8192,t=0,p=1",
		"m=8192,t=100000,p=1",
	} {
		tampered := strings.Join([]string{"", parts[1], parts[2], params, parts[4], parts[5]}, "$")
		if h.Verify("pw", tampered) {
			t.Fatalf("hash with %s should not verify", params)
		}
	}
}

func TestHasher_BcryptRejectsLongPasswordAsInvalid(t *testing.T) {
	h := newTestHasher(t, AlgorithmBcrypt)

	_, err := h.Hash(strings.Repeat("é", 60))
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "password" {
		t.Fatalf("expected password ValidationError, got %v", err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNew_UnknownAlgorithm(t *testing.T) {
	if _, err := New(Options{Algorithm: "md5"}); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
}
