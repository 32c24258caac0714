package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
	"github.com/research-tracker/dashboard/internal/core/service"
	"github.com/research-tracker/dashboard/internal/infrastructure/researchapi"
)

type AuthHandler struct {
	session ports.SessionManager
	guard   Guard
	log     zerolog.Logger
}

func NewAuthHandler(session ports.SessionManager, guard Guard, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{session: session, guard: guard, log: log}
}

// LoginPage renders the login form.
//
// @Summary      Login page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  pageResponse
// @Success      303  "already logged in, redirected to /projects"
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, pageResponse{Page: "login"})
}

// RegisterPage renders the sign-up form.
//
// @Summary      Register page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /register [get]
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return c.JSON(http.StatusOK, pageResponse{Page: "register"})
}

// Login authenticates against the API and establishes the session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "Login credentials"
// @Success      303   "redirected to /projects"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if _, err := h.session.Login(c.Request().Context(), req.Username, req.Password); err != nil {
		return h.authFailure(c, err, "Invalid username or password")
	}
	return c.Redirect(http.StatusSeeOther, service.LandingPath)
}

// Register creates an account and logs it in.
//
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  registerRequest  true  "Account details"
// @Success      303   "redirected to /projects"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if _, err := h.session.Signup(c.Request().Context(), req.Username, req.FullName, req.Password); err != nil {
		return h.authFailure(c, err, "Registration failed")
	}
	return c.Redirect(http.StatusSeeOther, service.LandingPath)
}

func (h *AuthHandler) authFailure(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrAuthenticationRejected):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": researchapi.Message(err, fallback)})
	case errors.Is(err, domain.ErrLoginSuperseded):
		return c.JSON(http.StatusConflict, map[string]string{"error": "the session changed while logging in, try again"})
	}
	return err
}

// Logout ends the session. It always lands on the login page; a storage
// failure is logged since the in-memory session is already gone.
//
// @Summary      Logout
// @Tags         auth
// @Success      303  "redirected to /login"
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.session.Logout(c.Request().Context()); err != nil {
		h.log.Error().Err(err).Msg("logout could not clear persisted session")
	}
	return c.Redirect(http.StatusSeeOther, service.LoginPath)
}

// Session reports the session phase and, when logged in, the profile.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	snap := h.session.Snapshot()
	return c.JSON(http.StatusOK, sessionResponse{
		Phase:    snap.Phase,
		User:     snap.User,
		Location: h.guard.Location(),
		Menu:     h.guard.Menu(),
	})
}

// Menu lists the dashboard sections open to the current user.
//
// @Summary      Sidebar menu
// @Tags         auth
// @Produce      json
// @Success      200  {array}  service.Route
// @Router       /api/menu [get]
func (h *AuthHandler) Menu(c echo.Context) error {
	return c.JSON(http.StatusOK, h.guard.Menu())
}
