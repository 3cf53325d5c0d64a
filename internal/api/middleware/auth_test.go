package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/accessdesk/user-directory/internal/core/domain"
	"github.com/accessdesk/user-directory/internal/core/ports"
)

type stubVerifier struct {
	verifyFn func(ctx context.Context, token string) (*ports.TokenClaims, error)
}

func (s *stubVerifier) VerifyToken(ctx context.Context, token string) (*ports.TokenClaims, error) {
	return s.verifyFn(ctx, token)
}

func acceptToken(want string) *stubVerifier {
	return &stubVerifier{verifyFn: func(_ context.Context, token string) (*ports.TokenClaims, error) {
		if token != want {
			return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
		}
		return &ports.TokenClaims{
			Principal: domain.Principal{UserID: "alice", Roles: []string{domain.RoleAdmin}},
			TokenID:   "jti-1",
		}, nil
	}}
}

func run(t *testing.T, mw echo.MiddlewareFunc, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := mw(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	called := false
	rec := run(t, Auth(acceptToken("good")), "Bearer good", func(c echo.Context) error {
		called = true
		p := PrincipalFrom(c)
		if p == nil || p.UserID != "alice" || !p.HasRole(domain.RoleAdmin) {
			t.Fatalf("principal not set: %+v", p)
		}
		if ClaimsFrom(c).TokenID != "jti-1" {
			t.Fatalf("claims not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeaderIsAnonymous(t *testing.T) {
	rec := run(t, Auth(acceptToken("good")), "", func(c echo.Context) error {
		if PrincipalFrom(c) != nil {
			t.Fatalf("expected anonymous request")
		}
		return c.NoContent(http.StatusOK)
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "Bearer   "} {
		rec := run(t, Auth(acceptToken("good")), header, func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec := run(t, Auth(acceptToken("good")), "Bearer not-a-token", func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_VerifierFailureIsNotUnauthorized(t *testing.T) {
	verifier := &stubVerifier{verifyFn: func(context.Context, string) (*ports.TokenClaims, error) {
		return nil, fmt.Errorf("verify token: %w", domain.ErrInternal)
	}}
	rec := run(t, Auth(verifier), "Bearer good", func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
