package api

import (
	"context"
	"net/url"
)

const pageLimit = "200"

func Paginate[T any](ctx context.Context, c *Client, path string, query url.Values, all bool) ([]T, string, string, error) {
	q := cloneQuery(query)
	if q.Get("limit") == "" {
		q.Set("limit", pageLimit)
	}
	var items []T
	var next, lastRequestID string
	for {
		var page Paginated[T]
		reqID, err := c.Get(ctx, path, q, &page)
		if err != nil {
			return nil, "", reqID, err
		}
		if reqID != "" {
			lastRequestID = reqID
		}
		items = append(items, page.Results...)
		next = page.NextCursor
		if !all || next == "" {
			break
		}
		q.Set("cursor", next)
	}
	return items, next, lastRequestID, nil
}

func cloneQuery(in url.Values) url.Values {
	if in == nil {
		return url.Values{}
	}
	out := make(url.Values, len(in))
	for k, vs := range in {
		cp := make([]string, len(vs))
		copy(cp, vs)
		out[k] = cp
	}
	return out
}
