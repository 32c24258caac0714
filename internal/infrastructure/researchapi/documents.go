package researchapi

import (
	"context"
	"net/url"

	"github.com/research-tracker/dashboard/internal/core/domain"
)

func (c *Client) ListDocuments(ctx context.Context, projectID string) ([]domain.Document, error) {
	var out []domain.Document
	if err := c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/documents", &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].ProjectID == "" {
			out[i].ProjectID = projectID
		}
	}
	return out, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.delete(ctx, "/documents/"+url.PathEscape(id))
}
