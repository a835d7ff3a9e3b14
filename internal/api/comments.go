package api

import (
	"context"
	"net/url"
)

func (c *Client) ListComments(ctx context.Context, taskID string) ([]Comment, string, error) {
	query := url.Values{}
	query.Set("task_id", taskID)
	comments, _, reqID, err := Paginate[Comment](ctx, c, "/comments", query, true)
	return comments, reqID, err
}

func (c *Client) AddComment(ctx context.Context, body map[string]any) (Comment, string, error) {
	var comment Comment
	reqID, err := c.Post(ctx, "/comments", nil, body, &comment, true)
	return comment, reqID, err
}

func (c *Client) CurrentUser(ctx context.Context) (User, string, error) {
	var user User
	reqID, err := c.Get(ctx, "/user", nil, &user)
	return user, reqID, err
}
