package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
	"github.com/research-tracker/dashboard/internal/core/service"
	httpinfra "github.com/research-tracker/dashboard/internal/infrastructure/http"
)

type routerSession struct {
	phase domain.SessionPhase
	user  *domain.User
}

func (s *routerSession) Snapshot() domain.Session {
	return domain.Session{User: s.user, Phase: s.phase}
}
func (s *routerSession) Phase() domain.SessionPhase { return s.phase }
func (s *routerSession) IsAuthenticated() bool      { return s.user != nil }
func (s *routerSession) Logout(context.Context) error {
	s.user, s.phase = nil, domain.PhaseUnauthenticated
	return nil
}
func (s *routerSession) CurrentUser() (domain.User, bool) {
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}
func (s *routerSession) HasRole(required ...domain.Role) bool {
	return s.user != nil && domain.RoleSet(required).Contains(s.user.Role)
}
func (s *routerSession) Login(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrAuthenticationRejected
}
func (s *routerSession) Signup(context.Context, string, string, string) (*domain.User, error) {
	return nil, domain.ErrAuthenticationRejected
}

type emptyAPI struct{}

func (emptyAPI) ListProjects(context.Context) ([]domain.Project, error) { return nil, nil }
func (emptyAPI) GetProject(context.Context, string) (*domain.Project, error) {
	return nil, domain.ErrNotFound
}
func (emptyAPI) CreateProject(_ context.Context, in ports.ProjectInput) (*domain.Project, error) {
	return &domain.Project{ID: "p", Title: in.Title}, nil
}
func (emptyAPI) UpdateProject(context.Context, string, ports.ProjectInput) (*domain.Project, error) {
	return &domain.Project{}, nil
}
func (emptyAPI) UpdateProjectStatus(context.Context, string, domain.ProjectStatus) (*domain.Project, error) {
	return &domain.Project{}, nil
}
func (emptyAPI) DeleteProject(context.Context, string) error { return nil }
func (emptyAPI) ListMilestones(context.Context, string) ([]domain.Milestone, error) {
	return nil, nil
}
func (emptyAPI) CreateMilestone(context.Context, string, ports.MilestoneInput) (*domain.Milestone, error) {
	return &domain.Milestone{}, nil
}
func (emptyAPI) UpdateMilestone(context.Context, string, ports.MilestoneInput) (*domain.Milestone, error) {
	return &domain.Milestone{}, nil
}
func (emptyAPI) DeleteMilestone(context.Context, string) error                    { return nil }
func (emptyAPI) ListDocuments(context.Context, string) ([]domain.Document, error) { return nil, nil }
func (emptyAPI) DeleteDocument(context.Context, string) error                     { return nil }
func (emptyAPI) ListUsers(context.Context) ([]domain.User, error)                 { return nil, nil }
func (emptyAPI) CreateUser(context.Context, ports.UserInput) (*domain.User, error) {
	return &domain.User{}, nil
}
func (emptyAPI) UpdateUser(context.Context, string, ports.UserInput) (*domain.User, error) {
	return &domain.User{}, nil
}
func (emptyAPI) DeleteUser(context.Context, string) error { return nil }

func newTestRouter(session *routerSession) *echo.Echo {
	e := httpinfra.NewRouter(zerolog.Nop())
	Register(e, Dependencies{
		Session:    session,
		Guard:      service.NewAccessGuard(session, zerolog.Nop()),
		Projects:   emptyAPI{},
		Milestones: emptyAPI{},
		Documents:  emptyAPI{},
		Users:      emptyAPI{},
		Log:        zerolog.Nop(),
	})
	return e
}

func as(role domain.Role) *routerSession {
	return &routerSession{
		phase: domain.PhaseAuthenticated,
		user:  &domain.User{ID: "u1", Username: "someone", FullName: "Some One", Role: role},
	}
}

func TestRouter(t *testing.T) {
	anon := &routerSession{phase: domain.PhaseUnauthenticated}

	cases := []struct {
		name     string
		session  *routerSession
		method   string
		path     string
		body     string
		wantCode int
		wantLoc  string
	}{
		{"anonymous page redirects to login", anon, http.MethodGet, "/projects", "", http.StatusSeeOther, "/login"},
		{"anonymous root redirects to login", anon, http.MethodGet, "/", "", http.StatusSeeOther, "/login"},
		{"anonymous sees login", anon, http.MethodGet, "/login", "", http.StatusOK, ""},
		{"rejected login", anon, http.MethodPost, "/login", `{"username":"a","password":"b"}`, http.StatusUnauthorized, ""},
		{"logged in leaves register", as(domain.RoleViewer), http.MethodGet, "/register", "", http.StatusSeeOther, "/projects"},
		{"root lands on projects", as(domain.RoleViewer), http.MethodGet, "/", "", http.StatusSeeOther, "/projects"},
		{"viewer lists projects", as(domain.RoleViewer), http.MethodGet, "/projects", "", http.StatusOK, ""},
		{"viewer cannot create projects", as(domain.RoleViewer), http.MethodPost, "/projects", `{"title":"x"}`, http.StatusForbidden, ""},
		{"pi creates projects", as(domain.RolePI), http.MethodPost, "/projects", `{"title":"x"}`, http.StatusCreated, ""},
		{"pi cannot delete projects", as(domain.RolePI), http.MethodDelete, "/projects/p1", "", http.StatusForbidden, ""},
		{"admin deletes projects", as(domain.RoleAdmin), http.MethodDelete, "/projects/p1", "", http.StatusNoContent, ""},
		{"viewer cannot open milestones", as(domain.RoleViewer), http.MethodGet, "/milestones", "", http.StatusForbidden, ""},
		{"member opens milestones", as(domain.RoleMember), http.MethodGet, "/milestones", "", http.StatusOK, ""},
		{"pi cannot open admin", as(domain.RolePI), http.MethodGet, "/admin", "", http.StatusForbidden, ""},
		{"admin opens admin", as(domain.RoleAdmin), http.MethodGet, "/admin", "", http.StatusOK, ""},
		{"missing project", as(domain.RoleAdmin), http.MethodGet, "/projects/none", "", http.StatusNotFound, ""},
		{"health is never guarded", anon, http.MethodGet, "/health", "", http.StatusOK, ""},
		{"session is never guarded", anon, http.MethodGet, "/api/session", "", http.StatusOK, ""},
		{"logout always lands on login", anon, http.MethodPost, "/logout", "", http.StatusSeeOther, "/login"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestRouter(tc.session)

			var req *http.Request
			if tc.body != "" {
				req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			} else {
				req = httptest.NewRequest(tc.method, tc.path, nil)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d (%s)", tc.wantCode, rec.Code, rec.Body.String())
			}
			if tc.wantLoc != "" && rec.Header().Get(echo.HeaderLocation) != tc.wantLoc {
				t.Fatalf("expected Location %q, got %q", tc.wantLoc, rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}

func TestRouter_LoadingSessionIsUnavailable(t *testing.T) {
	e := newTestRouter(&routerSession{phase: domain.PhaseLoading})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
