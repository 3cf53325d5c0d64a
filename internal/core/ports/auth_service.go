package ports

import (
	"context"
	"time"

	"github.com/accessdesk/user-directory/internal/core/domain"
)

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token       string
	ExpiresAt   time.Time
	Principal   domain.Principal
	Destination string
}

// TokenClaims is what a verified access token carries.
type TokenClaims struct {
	Principal domain.Principal
	TokenID   string
	ExpiresAt time.Time
}

type AuthService interface {
	// Authenticate verifies credentials and returns the principal. Every
	// rejection is domain.ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.Principal, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, claims TokenClaims) error
	// VerifyToken parses an access token and rejects revoked or expired ones.
	VerifyToken(ctx context.Context, token string) (*TokenClaims, error)
}

// TokenRevocations records logged-out token ids until they expire.
type TokenRevocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
