package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/research-tracker/dashboard/internal/api/metrics"
	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
)

var sessionKeys = []string{domain.StorageKeyToken, domain.StorageKeyUser}

// SessionStore is the credential store: the only writer of the session and of
// its persisted copy. Memory and storage are always mutated under the same
// lock so no reader observes them diverging.
type SessionStore struct {
	storage   ports.SessionStorage
	gateway   ports.AuthGateway
	validator ports.TokenValidator
	events    ports.SessionEventPublisher
	log       zerolog.Logger
	now       func() time.Time

	mu          sync.RWMutex
	token       string
	user        *domain.User
	phase       domain.SessionPhase
	initialized bool
	// epoch advances on every login, signup, logout and invalidation. An
	// in-flight login applies its result only if the epoch is unchanged.
	epoch uint64
}

// NewSessionStore returns a store in the loading phase. Initialize must be
// called once before the store is consulted by the access guard.
func NewSessionStore(
	storage ports.SessionStorage,
	gateway ports.AuthGateway,
	validator ports.TokenValidator,
	events ports.SessionEventPublisher,
	log zerolog.Logger,
) *SessionStore {
	return &SessionStore{
		storage:   storage,
		gateway:   gateway,
		validator: validator,
		events:    events,
		log:       log.With().Str("component", "session_store").Logger(),
		now:       time.Now,
		phase:     domain.PhaseLoading,
	}
}

// Initialize restores a persisted session when its token is still fresh and
// its profile decodes; any other persisted state is cleared, including state
// the storage itself can no longer decode. The store always leaves the loading
// phase, even when storage fails.
func (s *SessionStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return domain.ErrAlreadyInitialized
	}
	s.initialized = true
	s.phase = domain.PhaseUnauthenticated

	token, hasToken, err := s.storage.Get(ctx, domain.StorageKeyToken)
	if errors.Is(err, domain.ErrUnreadableSession) {
		return s.discardLocked(ctx, "unreadable persisted session")
	}
	if err != nil {
		return fmt.Errorf("initialize session: read token: %w", err)
	}
	rawUser, hasUser, err := s.storage.Get(ctx, domain.StorageKeyUser)
	if errors.Is(err, domain.ErrUnreadableSession) {
		return s.discardLocked(ctx, "unreadable persisted session")
	}
	if err != nil {
		return fmt.Errorf("initialize session: read user: %w", err)
	}

	switch {
	case !hasToken && !hasUser:
		s.log.Debug().Msg("no persisted session")
		return nil
	case !hasToken || token == "":
		return s.discardLocked(ctx, "profile without token")
	case !hasUser:
		return s.discardLocked(ctx, "token without profile")
	}

	user, err := domain.DecodeUser(rawUser)
	if err != nil {
		return s.discardLocked(ctx, "invalid profile")
	}
	if s.validator.IsExpired(token) {
		return s.discardLocked(ctx, "expired or malformed token")
	}

	s.token = token
	s.user = &user
	s.phase = domain.PhaseAuthenticated
	metrics.SessionTransitionsTotal.WithLabelValues("restored").Inc()
	s.log.Info().Str("username", user.Username).Str("role", user.Role.String()).Msg("session restored")
	return nil
}

func (s *SessionStore) discardLocked(ctx context.Context, reason string) error {
	metrics.SessionTransitionsTotal.WithLabelValues("discarded").Inc()
	s.log.Info().Str("reason", reason).Msg("discarding persisted session")
	if err := s.storage.Delete(ctx, sessionKeys...); err != nil {
		return fmt.Errorf("initialize session: clear persisted session: %w", err)
	}
	return nil
}

// Login exchanges credentials for a fresh session. Gateway errors are
// returned unchanged; the store never retries.
func (s *SessionStore) Login(ctx context.Context, username, password string) (*domain.User, error) {
	epoch := s.currentEpoch()
	res, err := s.gateway.Login(ctx, ports.LoginInput{Username: username, Password: password})
	if err == nil {
		var user *domain.User
		user, err = s.establish(ctx, epoch, res)
		recordAttempt("login", err)
		return user, err
	}
	recordAttempt("login", err)
	return nil, err
}

// Signup creates an account and logs into it, with the same contract as Login.
func (s *SessionStore) Signup(ctx context.Context, username, fullName, password string) (*domain.User, error) {
	epoch := s.currentEpoch()
	res, err := s.gateway.Signup(ctx, ports.SignupInput{Username: username, FullName: fullName, Password: password})
	if err == nil {
		var user *domain.User
		user, err = s.establish(ctx, epoch, res)
		recordAttempt("signup", err)
		return user, err
	}
	recordAttempt("signup", err)
	return nil, err
}

func (s *SessionStore) establish(ctx context.Context, epoch uint64, res *ports.AuthResult) (*domain.User, error) {
	if res == nil || res.Token == "" {
		return nil, fmt.Errorf("%w: auth response carried no token", domain.ErrMalformedToken)
	}
	if err := res.User.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.validator.Decode(res.Token); err != nil {
		return nil, err
	}
	rawUser, err := domain.EncodeUser(res.User)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.log.Warn().Str("username", res.User.Username).Msg("discarding login result that arrived after a session change")
		return nil, domain.ErrLoginSuperseded
	}
	if err := s.storage.Set(ctx, map[string]string{
		domain.StorageKeyToken: res.Token,
		domain.StorageKeyUser:  rawUser,
	}); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("persist session: %w", err)
	}
	user := res.User
	s.token = res.Token
	s.user = &user
	s.phase = domain.PhaseAuthenticated
	s.initialized = true
	s.epoch++
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues(string(domain.EventEstablished)).Inc()
	s.log.Info().Str("username", user.Username).Str("role", user.Role.String()).Msg("session established")
	s.publish(domain.EventEstablished, user.Username)

	out := user
	return &out, nil
}

// Logout clears memory and storage. Calling it while logged out changes
// nothing observable, but still discards any login that is in flight.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.epoch++
	if s.user == nil && s.token == "" {
		s.mu.Unlock()
		return nil
	}
	username := s.usernameLocked()
	err := s.storage.Delete(ctx, sessionKeys...)
	s.clearLocked()
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues(string(domain.EventCleared)).Inc()
	s.log.Info().Str("username", username).Msg("logged out")
	s.publish(domain.EventCleared, username)

	if err != nil {
		return fmt.Errorf("logout: clear persisted session: %w", err)
	}
	return nil
}

// Invalidate is the teardown used when the API rejects token. It is a no-op
// unless token is the credential currently held, so a late rejection of an
// older token never clears a newer session.
func (s *SessionStore) Invalidate(ctx context.Context, token string) bool {
	s.mu.Lock()
	if token == "" || token != s.token {
		s.mu.Unlock()
		return false
	}
	username := s.usernameLocked()
	if err := s.storage.Delete(ctx, sessionKeys...); err != nil {
		s.log.Error().Err(err).Msg("failed to clear persisted session after rejection")
	}
	s.clearLocked()
	s.epoch++
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues(string(domain.EventInvalidated)).Inc()
	s.log.Warn().Str("username", username).Msg("session invalidated by the API")
	return true
}

func (s *SessionStore) clearLocked() {
	s.token = ""
	s.user = nil
	s.phase = domain.PhaseUnauthenticated
}

func (s *SessionStore) usernameLocked() string {
	if s.user == nil {
		return ""
	}
	return s.user.Username
}

func (s *SessionStore) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

func (s *SessionStore) publish(kind domain.SessionEventKind, username string) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.SessionEvent{Kind: kind, Username: username, OccurredAt: s.now()})
}

// Token returns the current token, or "" when logged out.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Phase returns the observable session phase.
func (s *SessionStore) Phase() domain.SessionPhase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Snapshot returns a copy of the session safe to keep.
func (s *SessionStore) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := domain.Session{Token: s.token, Phase: s.phase}
	if s.user != nil {
		u := *s.user
		out.User = &u
	}
	return out
}

// CurrentUser returns the profile of the logged-in user.
func (s *SessionStore) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.token == "" {
		return domain.User{}, false
	}
	return *s.user, true
}

// IsAuthenticated is true iff both token and profile are present.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// HasRole reports whether the current user holds one of required. It is
// always false when logged out or when required is empty.
func (s *SessionStore) HasRole(required ...domain.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.user == nil {
		return false
	}
	return domain.RoleSet(required).Contains(s.user.Role)
}

func recordAttempt(flow string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAuthenticationRejected):
		result = "rejected"
	case errors.Is(err, domain.ErrLoginSuperseded):
		result = "superseded"
	default:
		result = "error"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(flow, result).Inc()
}
