package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
	"github.com/research-tracker/dashboard/internal/core/service"
)

// ContextKeyUser holds the domain.User of an authenticated request.
const ContextKeyUser = "user"

// Navigator is the part of the access guard that tracks page navigation.
type Navigator interface {
	Navigate(path string) (string, bool)
}

// Guard applies the redirect protocol to dashboard requests. Page loads (GET)
// move the guard's location; other methods are only checked. While the
// session is still loading nothing is decided and the request is refused
// with 503.
func Guard(session ports.SessionReader, nav Navigator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			phase := session.Phase()
			if phase == domain.PhaseLoading {
				c.Response().Header().Set("Retry-After", "1")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session is loading")
			}

			path := c.Request().URL.Path
			var (
				target   string
				redirect bool
			)
			if c.Request().Method == http.MethodGet {
				target, redirect = nav.Navigate(path)
			} else {
				target, redirect = service.Decide(phase, path)
			}
			if redirect {
				return c.Redirect(http.StatusSeeOther, target)
			}

			if u, ok := session.CurrentUser(); ok {
				c.Set(ContextKeyUser, u)
			}
			return next(c)
		}
	}
}
