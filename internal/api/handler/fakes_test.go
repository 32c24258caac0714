package handler

import (
	"context"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
	"github.com/research-tracker/dashboard/internal/core/service"
)

type stubSessionManager struct {
	session  domain.Session
	loginFn  func(ctx context.Context, username, password string) (*domain.User, error)
	signupFn func(ctx context.Context, username, fullName, password string) (*domain.User, error)
	logouts  int
}

func (s *stubSessionManager) Snapshot() domain.Session   { return s.session }
func (s *stubSessionManager) Phase() domain.SessionPhase { return s.session.Phase }
func (s *stubSessionManager) CurrentUser() (domain.User, bool) {
	if s.session.User == nil {
		return domain.User{}, false
	}
	return *s.session.User, true
}
func (s *stubSessionManager) IsAuthenticated() bool { return s.session.User != nil }
func (s *stubSessionManager) HasRole(required ...domain.Role) bool {
	return s.session.User != nil && domain.RoleSet(required).Contains(s.session.User.Role)
}

func (s *stubSessionManager) Login(ctx context.Context, username, password string) (*domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubSessionManager) Signup(ctx context.Context, username, fullName, password string) (*domain.User, error) {
	return s.signupFn(ctx, username, fullName, password)
}

func (s *stubSessionManager) Logout(context.Context) error {
	s.logouts++
	return nil
}

// roleGuard permits by a fixed role.
type roleGuard struct {
	role domain.Role
}

func (g roleGuard) Permit(required ...domain.Role) bool {
	if g.role == "" {
		return false
	}
	return len(required) == 0 || domain.RoleSet(required).Contains(g.role)
}

func (g roleGuard) Menu() []service.Route {
	var out []service.Route
	for _, r := range service.Routes {
		if g.Permit(r.Roles...) {
			out = append(out, r)
		}
	}
	return out
}

func (g roleGuard) Location() string { return "/projects" }

// fakeResearchAPI serves the resource ports from memory.
type fakeResearchAPI struct {
	projects   []domain.Project
	milestones map[string][]domain.Milestone
	documents  map[string][]domain.Document
	users      []domain.User
	err        error

	updated    *ports.MilestoneInput
	statusSent domain.ProjectStatus
	deleted    []string
}

func (f *fakeResearchAPI) ListProjects(context.Context) ([]domain.Project, error) {
	return f.projects, f.err
}

func (f *fakeResearchAPI) GetProject(_ context.Context, id string) (*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeResearchAPI) CreateProject(_ context.Context, in ports.ProjectInput) (*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Project{ID: "new", Title: in.Title, Status: domain.ProjectPlanning}, nil
}

func (f *fakeResearchAPI) UpdateProject(_ context.Context, id string, in ports.ProjectInput) (*domain.Project, error) {
	return &domain.Project{ID: id, Title: in.Title}, f.err
}

func (f *fakeResearchAPI) UpdateProjectStatus(_ context.Context, id string, status domain.ProjectStatus) (*domain.Project, error) {
	f.statusSent = status
	return &domain.Project{ID: id, Status: status}, f.err
}

func (f *fakeResearchAPI) DeleteProject(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeResearchAPI) ListMilestones(_ context.Context, projectID string) ([]domain.Milestone, error) {
	return f.milestones[projectID], f.err
}

func (f *fakeResearchAPI) CreateMilestone(_ context.Context, projectID string, in ports.MilestoneInput) (*domain.Milestone, error) {
	return &domain.Milestone{ID: "m-new", ProjectID: projectID, Title: in.Title}, f.err
}

func (f *fakeResearchAPI) UpdateMilestone(_ context.Context, id string, in ports.MilestoneInput) (*domain.Milestone, error) {
	f.updated = &in
	m := &domain.Milestone{ID: id, Title: in.Title, Description: in.Description, DueDate: in.DueDate}
	if in.Completed != nil {
		m.Completed = *in.Completed
	}
	return m, f.err
}

func (f *fakeResearchAPI) DeleteMilestone(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeResearchAPI) ListDocuments(_ context.Context, projectID string) ([]domain.Document, error) {
	return f.documents[projectID], f.err
}

func (f *fakeResearchAPI) DeleteDocument(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeResearchAPI) ListUsers(context.Context) ([]domain.User, error) {
	return f.users, f.err
}

func (f *fakeResearchAPI) CreateUser(_ context.Context, in ports.UserInput) (*domain.User, error) {
	return &domain.User{ID: "u-new", Username: in.Username, FullName: in.FullName, Role: in.Role}, f.err
}

func (f *fakeResearchAPI) UpdateUser(_ context.Context, id string, in ports.UserInput) (*domain.User, error) {
	return &domain.User{ID: id, FullName: in.FullName, Role: in.Role}, f.err
}

func (f *fakeResearchAPI) DeleteUser(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}
