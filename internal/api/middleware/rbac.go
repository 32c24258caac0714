package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/research-tracker/dashboard/internal/api/metrics"
	"github.com/research-tracker/dashboard/internal/core/domain"
)

// Permitter decides whether the current session satisfies a role set.
type Permitter interface {
	Permit(required ...domain.Role) bool
}

// RequireRoles enforces role-based access control against the session. An
// empty role list only requires an authenticated session.
func RequireRoles(p Permitter, roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !p.Permit(roles...) {
				metrics.GuardDenialsTotal.WithLabelValues(c.Path()).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
