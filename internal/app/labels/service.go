package labels

import (
	"errors"
	"sort"
	"strings"

	"github.com/agisilaos/tod/internal/api"
)

type AddInput struct {
	Name     string
	Color    string
	Favorite bool
}

func BuildAddPayload(in AddInput) (map[string]any, error) {
	name := strings.TrimPrefix(strings.TrimSpace(in.Name), "@")
	if name == "" {
		return nil, errors.New("--name is required")
	}
	if strings.ContainsAny(name, " @") {
		return nil, errors.New("label names cannot contain spaces or @")
	}
	body := map[string]any{"name": name}
	if color := strings.TrimSpace(in.Color); color != "" {
		body["color"] = color
	}
	if in.Favorite {
		body["is_favorite"] = true
	}
	return body, nil
}

func Canonical(names []string, known []api.Label) []string {
	byName := make(map[string]string, len(known))
	for _, label := range known {
		byName[strings.ToLower(label.Name)] = label.Name
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimPrefix(strings.TrimSpace(name), "@")
		if name == "" {
			continue
		}
		if existing, ok := byName[strings.ToLower(name)]; ok {
			name = existing
		}
		out = append(out, name)
	}
	return out
}

func Ordered(labels []api.Label) []api.Label {
	out := append([]api.Label(nil), labels...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsFavorite != out[j].IsFavorite {
			return out[i].IsFavorite
		}
		return out[i].Order < out[j].Order
	})
	return out
}
