package domain

import "errors"

var (
	// ErrMalformedToken means the token could not be decoded. Callers treat it
	// exactly like an expired token.
	ErrMalformedToken = errors.New("malformed token")
	// ErrAuthenticationRejected is returned when the API refuses a login or
	// signup attempt.
	ErrAuthenticationRejected = errors.New("authentication rejected")
	// ErrSessionInvalidated is returned when an authenticated request comes
	// back unauthorized and the session has been torn down.
	ErrSessionInvalidated = errors.New("session invalidated")
	// ErrUpstreamFailure covers every other network or server failure.
	ErrUpstreamFailure = errors.New("network or server failure")

	ErrForbidden = errors.New("access forbidden")
	ErrNotFound  = errors.New("resource not found")

	// ErrLoginSuperseded is returned when a login or signup completes after
	// the session was changed by a later operation; its result is discarded.
	ErrLoginSuperseded = errors.New("login superseded by a later session change")
	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("session already initialized")
	// ErrUnreadableSession is returned by session storage whose persisted
	// contents exist but cannot be decoded, e.g. sealed under another secret.
	ErrUnreadableSession = errors.New("persisted session unreadable")

	ErrInvalidRole    = errors.New("invalid role")
	ErrInvalidProfile = errors.New("invalid user profile")
)
