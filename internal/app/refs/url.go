package refs

import (
	"fmt"
	"net/url"
	"strings"
)

func NormalizeEntityRef(value, entity string) (normalized string, directID bool, err error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false, nil
	}
	if parsed, ok := ParseEntityURL(trimmed); ok {
		want := strings.ToLower(strings.TrimSpace(entity))
		if parsed.Entity != want {
			return "", false, fmt.Errorf("expected %s URL, got %s URL", want, parsed.Entity)
		}
		return parsed.ID, true, nil
	}
	normalized, directID = NormalizeRef(trimmed)
	return normalized, directID, nil
}

type EntityURL struct {
	Entity string
	ID     string
}

func ParseEntityURL(raw string) (EntityURL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u == nil {
		return EntityURL{}, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return EntityURL{}, false
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	if host != "app.todoist.com" && host != "todoist.com" {
		return EntityURL{}, false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 3 || parts[0] != "app" {
		return EntityURL{}, false
	}
	entity := strings.ToLower(strings.TrimSpace(parts[1]))
	switch entity {
	case "task", "project", "section", "label":
	default:
		return EntityURL{}, false
	}
	id := strings.TrimSpace(parts[2])
	if dash := strings.LastIndex(id, "-"); dash >= 0 {
		id = id[dash+1:]
	}
	if id == "" {
		return EntityURL{}, false
	}
	return EntityURL{Entity: entity, ID: id}, true
}
