package ports

import (
	"context"

	"github.com/research-tracker/dashboard/internal/core/domain"
)

// ProjectInput is the writable subset of a project.
type ProjectInput struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Tags      string `json:"tags"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// MilestoneInput is the writable subset of a milestone. Completed is only
// sent on update.
type MilestoneInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
	Completed   *bool  `json:"completed,omitempty"`
}

// UserInput is used by the admin screens. Password is only sent on create.
type UserInput struct {
	Username string      `json:"username,omitempty"`
	FullName string      `json:"fullName"`
	Password string      `json:"password,omitempty"`
	Role     domain.Role `json:"role"`
}

// ProjectAPI is the remote projects collection.
type ProjectAPI interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, in ProjectInput) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, in ProjectInput) (*domain.Project, error)
	UpdateProjectStatus(ctx context.Context, id string, status domain.ProjectStatus) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// MilestoneAPI is the remote milestones collection.
type MilestoneAPI interface {
	ListMilestones(ctx context.Context, projectID string) ([]domain.Milestone, error)
	CreateMilestone(ctx context.Context, projectID string, in MilestoneInput) (*domain.Milestone, error)
	UpdateMilestone(ctx context.Context, id string, in MilestoneInput) (*domain.Milestone, error)
	DeleteMilestone(ctx context.Context, id string) error
}

// DocumentAPI is the remote documents collection (metadata only).
type DocumentAPI interface {
	ListDocuments(ctx context.Context, projectID string) ([]domain.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// UserAPI is the remote user administration collection.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, in UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}
