package researchapi

import (
	"context"
	"net/url"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
)

func (c *Client) ListMilestones(ctx context.Context, projectID string) ([]domain.Milestone, error) {
	var out []domain.Milestone
	if err := c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/milestones", &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].ProjectID == "" {
			out[i].ProjectID = projectID
		}
	}
	return out, nil
}

func (c *Client) CreateMilestone(ctx context.Context, projectID string, in ports.MilestoneInput) (*domain.Milestone, error) {
	var out domain.Milestone
	if err := c.post(ctx, "/projects/"+url.PathEscape(projectID)+"/milestones", in, &out); err != nil {
		return nil, err
	}
	if out.ProjectID == "" {
		out.ProjectID = projectID
	}
	return &out, nil
}

func (c *Client) UpdateMilestone(ctx context.Context, id string, in ports.MilestoneInput) (*domain.Milestone, error) {
	var out domain.Milestone
	if err := c.put(ctx, "/milestones/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMilestone(ctx context.Context, id string) error {
	return c.delete(ctx, "/milestones/"+url.PathEscape(id))
}
