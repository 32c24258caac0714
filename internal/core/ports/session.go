package ports

import (
	"context"

	"github.com/research-tracker/dashboard/internal/core/domain"
)

// SessionStorage is the durable key-value store the session survives reloads
// in. Get reports ok=false for a missing key; Set writes every given key in a
// single atomic operation; Delete ignores missing keys.
type SessionStorage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// TokenValidator decodes token claims offline.
type TokenValidator interface {
	Decode(token string) (domain.TokenClaims, error)
	IsExpired(token string) bool
}

// SessionReader is the read-only view of the session handed to everything
// except the credential store itself.
type SessionReader interface {
	Snapshot() domain.Session
	Phase() domain.SessionPhase
	CurrentUser() (domain.User, bool)
	IsAuthenticated() bool
	HasRole(required ...domain.Role) bool
}

// CredentialSource is what the authenticated transport needs: the token to
// attach and a way to tear the session down when that token is rejected.
type CredentialSource interface {
	Token() string
	// Invalidate clears the session if token is still the current token and
	// reports whether a teardown happened.
	Invalidate(ctx context.Context, token string) bool
}

// SessionEventPublisher delivers session events to subscribers.
type SessionEventPublisher interface {
	Publish(event domain.SessionEvent)
}

// SessionManager is the credential store as seen by the login, register and
// logout handlers.
type SessionManager interface {
	SessionReader
	Login(ctx context.Context, username, password string) (*domain.User, error)
	Signup(ctx context.Context, username, fullName, password string) (*domain.User, error)
	Logout(ctx context.Context) error
}
