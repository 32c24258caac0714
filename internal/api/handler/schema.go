package handler

import (
	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
	"github.com/research-tracker/dashboard/internal/core/service"
)

// --- auth ---

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type registerRequest struct {
	Username        string `json:"username"        form:"username"        validate:"required"`
	FullName        string `json:"fullName"        form:"fullName"        validate:"required"`
	Password        string `json:"password"        form:"password"        validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required,eqfield=Password"`
}

type pageResponse struct {
	Page string `json:"page"`
}

type sessionResponse struct {
	Phase    domain.SessionPhase `json:"phase"`
	User     *domain.User        `json:"user,omitempty"`
	Location string              `json:"location"`
	Menu     []service.Route     `json:"menu"`
}

// --- projects ---

type projectRequest struct {
	Title     string `json:"title"     validate:"required,max=200"`
	Summary   string `json:"summary"`
	Tags      string `json:"tags"`
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate"   validate:"omitempty,datetime=2006-01-02"`
}

func (r projectRequest) input() ports.ProjectInput {
	return ports.ProjectInput{
		Title:     r.Title,
		Summary:   r.Summary,
		Tags:      r.Tags,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

type projectStatusRequest struct {
	Status domain.ProjectStatus `json:"status" validate:"required,oneof=PLANNING ACTIVE ON_HOLD COMPLETED ARCHIVED"`
}

type projectActions struct {
	Create       bool `json:"create"`
	Edit         bool `json:"edit"`
	ChangeStatus bool `json:"changeStatus"`
	Delete       bool `json:"delete"`
}

type projectsView struct {
	Projects []domain.Project       `json:"projects"`
	Statuses []domain.ProjectStatus `json:"statuses"`
	Actions  projectActions         `json:"actions"`
}

type projectView struct {
	Project *domain.Project `json:"project"`
	Actions projectActions  `json:"actions"`
}

// --- milestones ---

type milestoneRequest struct {
	ProjectID   string `json:"projectId"`
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"     validate:"omitempty,datetime=2006-01-02"`
	Completed   *bool  `json:"completed"`
}

func (r milestoneRequest) input() ports.MilestoneInput {
	return ports.MilestoneInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Completed:   r.Completed,
	}
}

type milestoneCompletedRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
	Completed *bool  `json:"completed" validate:"required"`
}

type milestoneActions struct {
	Manage bool `json:"manage"`
}

type milestonesView struct {
	Projects          []domain.Project   `json:"projects"`
	SelectedProjectID string             `json:"selectedProjectId,omitempty"`
	Milestones        []domain.Milestone `json:"milestones"`
	Actions           milestoneActions   `json:"actions"`
}

// --- documents ---

type documentActions struct {
	Delete bool `json:"delete"`
}

type documentsView struct {
	Projects          []domain.Project  `json:"projects"`
	SelectedProjectID string            `json:"selectedProjectId,omitempty"`
	Documents         []domain.Document `json:"documents"`
	Actions           documentActions   `json:"actions"`
}

// --- admin ---

type createUserRequest struct {
	Username string      `json:"username" validate:"required"`
	FullName string      `json:"fullName" validate:"required"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     domain.Role `json:"role"     validate:"required"`
}

type updateUserRequest struct {
	FullName string      `json:"fullName" validate:"required"`
	Role     domain.Role `json:"role"     validate:"required"`
}

type usersView struct {
	Users []domain.User `json:"users"`
	Roles []domain.Role `json:"roles"`
	Me    string        `json:"me"`
}
