package api

import (
	"context"
	"net/url"
)

func (c *Client) ListProjects(ctx context.Context) ([]Project, string, error) {
	projects, _, reqID, err := Paginate[Project](ctx, c, "/projects", nil, true)
	return projects, reqID, err
}

func (c *Client) CreateProject(ctx context.Context, body map[string]any) (Project, string, error) {
	var project Project
	reqID, err := c.Post(ctx, "/projects", nil, body, &project, true)
	return project, reqID, err
}

func (c *Client) DeleteProject(ctx context.Context, id string) (string, error) {
	return c.Delete(ctx, "/projects/"+url.PathEscape(id), nil)
}

func (c *Client) ListSections(ctx context.Context, projectID string) ([]Section, string, error) {
	query := url.Values{}
	if projectID != "" {
		query.Set("project_id", projectID)
	}
	sections, _, reqID, err := Paginate[Section](ctx, c, "/sections", query, true)
	return sections, reqID, err
}

func (c *Client) CreateSection(ctx context.Context, body map[string]any) (Section, string, error) {
	var section Section
	reqID, err := c.Post(ctx, "/sections", nil, body, &section, true)
	return section, reqID, err
}

func (c *Client) ListLabels(ctx context.Context) ([]Label, string, error) {
	labels, _, reqID, err := Paginate[Label](ctx, c, "/labels", nil, true)
	return labels, reqID, err
}

func (c *Client) CreateLabel(ctx context.Context, body map[string]any) (Label, string, error) {
	var label Label
	reqID, err := c.Post(ctx, "/labels", nil, body, &label, true)
	return label, reqID, err
}
