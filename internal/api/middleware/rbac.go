package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accessdesk/user-directory/internal/api/metrics"
	"github.com/accessdesk/user-directory/internal/core/domain"
)

// Require enforces a route's access requirement against the principal set by
// Auth. Anonymous callers get 401; authenticated callers without the role get 403.
func Require(req domain.Requirement) echo.MiddlewareFunc {
	label := metrics.RequirementLabel(req)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := req.Authorize(PrincipalFrom(c))
			switch {
			case err == nil:
				metrics.AuthorizationDecisionsTotal.WithLabelValues(label, "allowed").Inc()
				return next(c)
			case errors.Is(err, domain.ErrUnauthorized):
				metrics.AuthorizationDecisionsTotal.WithLabelValues(label, "unauthorized").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required").SetInternal(err)
			default:
				metrics.AuthorizationDecisionsTotal.WithLabelValues(label, "forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden").SetInternal(err)
			}
		}
	}
}
