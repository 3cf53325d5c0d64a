package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/accessdesk/user-directory/internal/core/domain"
	"github.com/accessdesk/user-directory/internal/core/ports"
)

const tokenIssuer = "user-directory"

// dummyPassword is verified against when the email is unknown so both
// rejection paths spend a hash verification.
const dummyPassword = "not-a-real-password"

// AuthConfig holds token and routing settings for AuthService.
type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	Destinations domain.Destinations
}

// AuthService is the authentication gate. It turns credentials into a
// Principal, issues access tokens for it and revokes them on logout.
type AuthService struct {
	users       ports.UserService
	hasher      ports.PasswordHasher
	revocations ports.TokenRevocations
	cfg         AuthConfig
	dummyHash   string
	log         zerolog.Logger
	now         func() time.Time
}

type accessClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

func NewAuthService(users ports.UserService, hasher ports.PasswordHasher, revocations ports.TokenRevocations, cfg AuthConfig, log zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.Destinations == (domain.Destinations{}) {
		cfg.Destinations = domain.DefaultDestinations
	}

	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		log.Warn().Err(err).Msg("could not prepare dummy hash; unknown-email logins will return faster")
	}

	return &AuthService{
		users:       users,
		hasher:      hasher,
		revocations: revocations,
		cfg:         cfg,
		dummyHash:   dummy,
		log:         log,
		now:         time.Now,
	}
}

// Authenticate moves one login attempt from submitted to authenticated or
// rejected. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.hasher.Verify(password, s.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Principal{
		UserID: user.ID,
		Roles:  append([]string(nil), user.Roles...),
	}, nil
}

// Login authenticates and issues a signed access token for the principal.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	principal, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, exp, err := s.generateToken(principal)
	if err != nil {
		return nil, fmt.Errorf("login: %w: %w", domain.ErrInternal, err)
	}

	s.log.Info().Str("user_id", principal.UserID).Msg("login succeeded")

	return &ports.LoginResult{
		Token:       token,
		ExpiresAt:   exp,
		Principal:   *principal,
		Destination: s.cfg.Destinations.Resolve(principal),
	}, nil
}

// Destination returns the post-login landing path for p.
func (s *AuthService) Destination(p *domain.Principal) string {
	return s.cfg.Destinations.Resolve(p)
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, claims ports.TokenClaims) error {
	if s.revocations == nil || claims.TokenID == "" {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("logout: %w: %w", domain.ErrInternal, err)
	}
	s.log.Info().Str("user_id", claims.Principal.UserID).Msg("logout")
	return nil
}

// VerifyToken parses an HS256 access token, rejects revoked ones and
// reloads the subject's roles.
func (s *AuthService) VerifyToken(ctx context.Context, raw string) (*ports.TokenClaims, error) {
	claims := &accessClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	if s.revocations != nil && claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("verify token: %w: %w", domain.ErrInternal, err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
		}
	}

	// Roles come from the current record, not the token, so deleting a user
	// or removing a role applies to tokens already issued.
	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("verify token: %w: %w", domain.ErrInternal, err)
	}

	out := &ports.TokenClaims{
		Principal: domain.Principal{UserID: user.ID, Roles: append([]string(nil), user.Roles...)},
		TokenID:   claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func (s *AuthService) generateToken(p *domain.Principal) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TokenTTL)
	claims := accessClaims{
		Roles: p.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    tokenIssuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
