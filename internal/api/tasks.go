package api

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

type TaskQuery struct {
	ProjectID string
	SectionID string
	Filter    string
}

// ListTasks returns active tasks in API order. A filter query uses the filter
// endpoint and cannot be combined with a project or section.
func (c *Client) ListTasks(ctx context.Context, in TaskQuery) ([]Task, string, error) {
	query := url.Values{}
	path := "/tasks"
	if filter := strings.TrimSpace(in.Filter); filter != "" {
		if in.ProjectID != "" || in.SectionID != "" {
			return nil, "", errors.New("filter cannot be combined with project or section")
		}
		path = "/tasks/filter"
		query.Set("query", filter)
	}
	if in.ProjectID != "" {
		query.Set("project_id", in.ProjectID)
	}
	if in.SectionID != "" {
		query.Set("section_id", in.SectionID)
	}
	tasks, _, reqID, err := Paginate[Task](ctx, c, path, query, true)
	return tasks, reqID, err
}

func (c *Client) GetTask(ctx context.Context, id string) (Task, string, error) {
	var task Task
	reqID, err := c.Get(ctx, "/tasks/"+url.PathEscape(id), nil, &task)
	return task, reqID, err
}

func (c *Client) CreateTask(ctx context.Context, body map[string]any) (Task, string, error) {
	var task Task
	reqID, err := c.Post(ctx, "/tasks", nil, body, &task, true)
	return task, reqID, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, body map[string]any) (Task, string, error) {
	var task Task
	reqID, err := c.Post(ctx, "/tasks/"+url.PathEscape(id), nil, body, &task, true)
	return task, reqID, err
}

func (c *Client) MoveTask(ctx context.Context, id string, body map[string]any) (Task, string, error) {
	var task Task
	reqID, err := c.Post(ctx, "/tasks/"+url.PathEscape(id)+"/move", nil, body, &task, true)
	return task, reqID, err
}

func (c *Client) CloseTask(ctx context.Context, id string) (string, error) {
	return c.Post(ctx, "/tasks/"+url.PathEscape(id)+"/close", nil, nil, nil, true)
}

func (c *Client) DeleteTask(ctx context.Context, id string) (string, error) {
	return c.Delete(ctx, "/tasks/"+url.PathEscape(id), nil)
}

func (c *Client) QuickAdd(ctx context.Context, text string) (Task, string, error) {
	var task Task
	reqID, err := c.Post(ctx, "/tasks/quick", nil, map[string]any{"text": text}, &task, true)
	if err != nil {
		return Task{}, reqID, err
	}
	return task, reqID, nil
}
