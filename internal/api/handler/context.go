package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accessdesk/user-directory/internal/api/middleware"
	"github.com/accessdesk/user-directory/internal/core/domain"
	"github.com/accessdesk/user-directory/internal/core/ports"
)

// ctxPrincipal returns the principal injected by the Auth middleware. Routes
// behind Require already guarantee one; the check here keeps a misrouted
// handler from running anonymously.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

func ctxClaims(c echo.Context) (*ports.TokenClaims, error) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
