package password

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/accessdesk/user-directory/internal/core/domain"
)

type bcryptScheme struct {
	cost int
}

func newBcrypt(cost int) *bcryptScheme {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptScheme{cost: cost}
}

func (b *bcryptScheme) hash(plaintext string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.Invalid("password", fmt.Sprintf("must be at most %d bytes", domain.MaxPasswordBytes))
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CompareHashAndPassword compares digests with subtle.ConstantTimeCompare.
func (b *bcryptScheme) verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

func (b *bcryptScheme) owns(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
