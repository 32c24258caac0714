package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/service"
	"github.com/research-tracker/dashboard/internal/infrastructure/researchapi"
)

// errorResponse is the canonical error envelope for all dashboard errors.
// Redirect is set when the client should move to another page.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp, code := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (errorResponse, int) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return errorResponse{Error: fmt.Sprintf("%v", he.Message)}, he.Code
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrSessionInvalidated):
		return errorResponse{
			Error:    "Your session has expired. Please log in again.",
			Redirect: service.LoginPath,
		}, http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return errorResponse{Error: researchapi.Message(err, "access forbidden")}, http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return errorResponse{Error: researchapi.Message(err, "not found")}, http.StatusNotFound
	case errors.Is(err, domain.ErrAuthenticationRejected):
		return errorResponse{Error: researchapi.Message(err, "authentication rejected")}, http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidRole):
		return errorResponse{Error: err.Error()}, http.StatusBadRequest
	}

	var apiErr *researchapi.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		// The API refused the request itself (validation, conflicts); relay it.
		return errorResponse{Error: researchapi.Message(err, http.StatusText(apiErr.StatusCode))}, apiErr.StatusCode
	}

	if errors.Is(err, domain.ErrUpstreamFailure) {
		log.Warn().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("research tracker API unavailable")
		return errorResponse{Error: "the research tracker API is unavailable"}, http.StatusBadGateway
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return errorResponse{Error: "internal server error"}, http.StatusInternalServerError
}
