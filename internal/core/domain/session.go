package domain

import "time"

// SessionPhase is the observable state of the session.
//
//	loading ──► authenticated ◄──► unauthenticated
//	   └──────────────────────────────────▲
type SessionPhase string

const (
	PhaseLoading         SessionPhase = "loading"
	PhaseAuthenticated   SessionPhase = "authenticated"
	PhaseUnauthenticated SessionPhase = "unauthenticated"
)

// Persisted storage keys.
const (
	StorageKeyToken = "session-token"
	StorageKeyUser  = "session-user"
)

// Session is an immutable snapshot of the current session. User is nil
// whenever Token is empty.
type Session struct {
	Token string
	User  *User
	Phase SessionPhase
}

// Authenticated reports whether both halves of the credential are present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// TokenClaims are the claims read from a signed token without verifying it.
type TokenClaims struct {
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionEventKind identifies what happened to the session.
type SessionEventKind string

const (
	EventEstablished SessionEventKind = "established"
	EventCleared     SessionEventKind = "cleared"
	EventInvalidated SessionEventKind = "invalidated"
)

// SessionEvent is published whenever the session changes phase.
type SessionEvent struct {
	Kind SessionEventKind
	// Username is the principal the event concerns, if known.
	Username string
	// Cause is a short description of the request that triggered an
	// invalidation, e.g. "GET /projects".
	Cause      string
	OccurredAt time.Time
}
