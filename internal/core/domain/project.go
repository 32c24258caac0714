package domain

// ProjectStatus represents the lifecycle state of a research project.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "PLANNING"
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectArchived  ProjectStatus = "ARCHIVED"
)

// ProjectStatuses lists the statuses in lifecycle order.
var ProjectStatuses = []ProjectStatus{ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectArchived}

// Valid reports whether s is a known status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

// Dates are kept as the ISO-8601 strings the API sends (LocalDate and
// LocalDateTime carry no zone, so they do not round-trip through time.Time).

// Project is a research project as returned by the API.
type Project struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Summary   string        `json:"summary"`
	Status    ProjectStatus `json:"status"`
	PI        *User         `json:"pi,omitempty"`
	Tags      string        `json:"tags"`
	StartDate string        `json:"startDate,omitempty"`
	EndDate   string        `json:"endDate,omitempty"`
	CreatedAt string        `json:"createdAt,omitempty"`
	UpdatedAt string        `json:"updatedAt,omitempty"`
}

// Milestone is a dated checkpoint inside a project.
type Milestone struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
	Completed   bool   `json:"completed"`
	CreatedBy   *User  `json:"createdBy,omitempty"`
}

// Document is the metadata of a file attached to a project.
type Document struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FileName    string `json:"fileName,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	UploadedBy  *User  `json:"uploadedBy,omitempty"`
	UploadedAt  string `json:"uploadedAt,omitempty"`
}
