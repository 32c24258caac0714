package service

import (
	"context"
	"errors"
	"sync"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub storage
// ---------------------------------------------------------------------------

type stubStorage struct {
	mu        sync.Mutex
	values    map[string]string
	getErr    error
	setErr    error
	deleteErr error
	deletes   int
}

func newStubStorage(values map[string]string) *stubStorage {
	if values == nil {
		values = make(map[string]string)
	}
	return &stubStorage{values: values}
}

func (s *stubStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *stubStorage) Set(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

func (s *stubStorage) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *stubStorage) Ping(context.Context) error  { return nil }
func (s *stubStorage) Close(context.Context) error { return nil }

func (s *stubStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

func (s *stubStorage) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// ---------------------------------------------------------------------------
// Stub gateway and publisher
// ---------------------------------------------------------------------------

type stubGateway struct {
	loginFn  func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error)
	signupFn func(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error)
}

func (g *stubGateway) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	if g.loginFn == nil {
		return nil, errors.New("login not stubbed")
	}
	return g.loginFn(ctx, in)
}

func (g *stubGateway) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	if g.signupFn == nil {
		return nil, errors.New("signup not stubbed")
	}
	return g.signupFn(ctx, in)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.SessionEvent
}

func (p *recordingPublisher) Publish(ev domain.SessionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) kinds() []domain.SessionEventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.SessionEventKind, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}

// stubSession is a fixed SessionReader for guard tests.
type stubSession struct {
	phase domain.SessionPhase
	user  *domain.User
}

func (s *stubSession) Snapshot() domain.Session {
	out := domain.Session{Phase: s.phase, User: s.user}
	if s.user != nil {
		out.Token = "token"
	}
	return out
}

func (s *stubSession) Phase() domain.SessionPhase { return s.phase }

func (s *stubSession) CurrentUser() (domain.User, bool) {
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *stubSession) IsAuthenticated() bool { return s.user != nil }

func (s *stubSession) HasRole(required ...domain.Role) bool {
	if s.user == nil {
		return false
	}
	return domain.RoleSet(required).Contains(s.user.Role)
}
