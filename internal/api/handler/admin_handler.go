package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
)

type AdminHandler struct {
	users ports.UserAPI
}

func NewAdminHandler(users ports.UserAPI) *AdminHandler {
	return &AdminHandler{users: users}
}

// Users returns the user administration page.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {object}  usersView
// @Failure      403  {object}  map[string]string
// @Router       /admin [get]
func (h *AdminHandler) Users(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, usersView{Users: users, Roles: domain.AllRoles, Me: me.ID})
}

// CreateUser adds an account with an explicit role.
//
// @Summary      Create user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  domain.User
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.users.CreateUser(c.Request().Context(), ports.UserInput{
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

// UpdateUser changes a user's name or role.
//
// @Summary      Update user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "User"
// @Success      200   {object}  domain.User
// @Router       /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.users.UpdateUser(c.Request().Context(), c.Param("id"), ports.UserInput{
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// DeleteUser removes an account. Admins cannot delete themselves.
//
// @Summary      Delete user
// @Tags         admin
// @Param        id   path  string  true  "User ID"
// @Success      204
// @Failure      409  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	me, err := currentUser(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if id == me.ID {
		return echo.NewHTTPError(http.StatusConflict, "you cannot delete your own account")
	}
	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
