package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/accessdesk/user-directory/internal/core/domain"
	"github.com/accessdesk/user-directory/internal/core/ports"
)

const claimsKey = "token_claims"

// TokenVerifier turns a bearer token into its claims.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*ports.TokenClaims, error)
}

// Auth validates a bearer token when one is presented and injects its claims
// into context. Requests without an Authorization header continue anonymously;
// Require decides whether the route accepts that.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.VerifyToken(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
				}
				return err
			}

			SetClaims(c, claims)
			return next(c)
		}
	}
}

// SetClaims stores verified claims on the request context.
func SetClaims(c echo.Context, claims *ports.TokenClaims) {
	c.Set(claimsKey, claims)
}

// ClaimsFrom returns the verified token claims, or nil for anonymous requests.
func ClaimsFrom(c echo.Context) *ports.TokenClaims {
	claims, _ := c.Get(claimsKey).(*ports.TokenClaims)
	return claims
}

// PrincipalFrom returns the authenticated principal, or nil.
func PrincipalFrom(c echo.Context) *domain.Principal {
	claims := ClaimsFrom(c)
	if claims == nil {
		return nil
	}
	return &claims.Principal
}
