package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/service"
)

type fixedSession struct {
	phase domain.SessionPhase
	user  *domain.User
}

func (s fixedSession) Snapshot() domain.Session {
	return domain.Session{User: s.user, Phase: s.phase}
}
func (s fixedSession) Phase() domain.SessionPhase { return s.phase }
func (s fixedSession) CurrentUser() (domain.User, bool) {
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}
func (s fixedSession) IsAuthenticated() bool { return s.phase == domain.PhaseAuthenticated }
func (s fixedSession) HasRole(required ...domain.Role) bool {
	return s.user != nil && domain.RoleSet(required).Contains(s.user.Role)
}

func serveGuarded(t *testing.T, session fixedSession, method, path string) (*httptest.ResponseRecorder, *service.AccessGuard, bool) {
	t.Helper()
	e := echo.New()
	guard := service.NewAccessGuard(session, zerolog.Nop())

	reached := false
	h := func(c echo.Context) error {
		reached = true
		if session.user != nil {
			if u, ok := c.Get(ContextKeyUser).(domain.User); !ok || u.Username != session.user.Username {
				t.Fatalf("user not placed on context")
			}
		}
		return c.NoContent(http.StatusOK)
	}
	g := e.Group("", Guard(session, guard))
	g.Add(method, path, h)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec, guard, reached
}

func TestGuard_RedirectsAnonymousToLogin(t *testing.T) {
	rec, guard, reached := serveGuarded(t, fixedSession{phase: domain.PhaseUnauthenticated}, http.MethodGet, "/admin")
	if reached {
		t.Fatalf("handler should not run")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected 303 to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if guard.Location() != "/login" {
		t.Fatalf("guard location not updated: %s", guard.Location())
	}
}

func TestGuard_RedirectsAuthenticatedAwayFromLogin(t *testing.T) {
	u := domain.User{ID: "1", Username: "alice", FullName: "Alice", Role: domain.RolePI}
	rec, _, reached := serveGuarded(t, fixedSession{phase: domain.PhaseAuthenticated, user: &u}, http.MethodPost, "/login")
	if reached {
		t.Fatalf("handler should not run")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/projects" {
		t.Fatalf("expected 303 to /projects, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGuard_PassesThrough(t *testing.T) {
	u := domain.User{ID: "1", Username: "alice", FullName: "Alice", Role: domain.RolePI}
	rec, guard, reached := serveGuarded(t, fixedSession{phase: domain.PhaseAuthenticated, user: &u}, http.MethodGet, "/projects")
	if !reached || rec.Code != http.StatusOK {
		t.Fatalf("expected handler to run, got %d", rec.Code)
	}
	if guard.Location() != "/projects" {
		t.Fatalf("guard location not updated: %s", guard.Location())
	}

	_, _, reached = serveGuarded(t, fixedSession{phase: domain.PhaseUnauthenticated}, http.MethodGet, "/register")
	if !reached {
		t.Fatalf("anonymous user should reach /register")
	}
}

func TestGuard_LoadingIsUnavailable(t *testing.T) {
	rec, guard, reached := serveGuarded(t, fixedSession{phase: domain.PhaseLoading}, http.MethodGet, "/projects")
	if reached {
		t.Fatalf("handler should not run while loading")
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if guard.Location() != "/" {
		t.Fatalf("no navigation may happen while loading, got %s", guard.Location())
	}
}
