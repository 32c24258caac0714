package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/research-tracker/dashboard/internal/api/middleware"
	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/service"
)

// Guard is the access guard as seen by handlers: action checks for the view
// models and the menu.
type Guard interface {
	Permit(required ...domain.Role) bool
	Menu() []service.Route
	Location() string
}

// currentUser returns the user the Guard middleware placed on the context.
// Its absence means the route was registered outside the guarded group.
func currentUser(c echo.Context) (domain.User, error) {
	u, ok := c.Get(middleware.ContextKeyUser).(domain.User)
	if !ok || u.Username == "" {
		return domain.User{}, echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}
	return u, nil
}
