package researchapi

import (
	"context"
	"net/url"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
)

var (
	_ ports.ProjectAPI   = (*Client)(nil)
	_ ports.MilestoneAPI = (*Client)(nil)
	_ ports.DocumentAPI  = (*Client)(nil)
	_ ports.UserAPI      = (*Client)(nil)
)

func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	if err := c.get(ctx, "/projects", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var out domain.Project
	if err := c.get(ctx, "/projects/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProject(ctx context.Context, in ports.ProjectInput) (*domain.Project, error) {
	var out domain.Project
	if err := c.post(ctx, "/projects", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, id string, in ports.ProjectInput) (*domain.Project, error) {
	var out domain.Project
	if err := c.put(ctx, "/projects/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProjectStatus sends the bare status as a JSON string.
func (c *Client) UpdateProjectStatus(ctx context.Context, id string, status domain.ProjectStatus) (*domain.Project, error) {
	var out domain.Project
	if err := c.patch(ctx, "/projects/"+url.PathEscape(id)+"/status", status, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.delete(ctx, "/projects/"+url.PathEscape(id))
}
