package researchapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/research-tracker/dashboard/internal/core/domain"
)

// APIError is a non-2xx response from the research tracker API. It unwraps to
// the domain error matching its status so callers can use errors.Is.
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string

	kind error
}

func newAPIError(status int, message, method, path string) *APIError {
	return &APIError{
		StatusCode: status,
		Message:    message,
		Method:     method,
		Path:       path,
		kind:       kindForStatus(status),
	}
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return domain.ErrSessionInvalidated
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return domain.ErrUpstreamFailure
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

// Message extracts the server's message from err, falling back to fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
