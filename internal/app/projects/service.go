package projects

import (
	"errors"
	"strings"

	"github.com/agisilaos/tod/internal/api"
)

type AddInput struct {
	Name     string
	ParentID string
	Color    string
	Favorite bool
}

func BuildAddPayload(in AddInput) (map[string]any, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("--name is required")
	}
	body := map[string]any{"name": name}
	if parent := strings.TrimSpace(in.ParentID); parent != "" {
		body["parent_id"] = parent
	}
	if color := strings.TrimSpace(in.Color); color != "" {
		body["color"] = color
	}
	if in.Favorite {
		body["is_favorite"] = true
	}
	return body, nil
}

func ValidateDelete(project api.Project) error {
	if project.IsInbox {
		return errors.New("the inbox project cannot be deleted")
	}
	return nil
}

func Tree(projects []api.Project) ([]api.Project, []int) {
	children := map[string][]api.Project{}
	known := map[string]bool{}
	for _, p := range projects {
		known[p.ID] = true
	}
	var roots []api.Project
	for _, p := range projects {
		if p.ParentID == "" || !known[p.ParentID] {
			roots = append(roots, p)
			continue
		}
		children[p.ParentID] = append(children[p.ParentID], p)
	}
	out := make([]api.Project, 0, len(projects))
	depths := make([]int, 0, len(projects))
	var walk func(p api.Project, depth int)
	walk = func(p api.Project, depth int) {
		out = append(out, p)
		depths = append(depths, depth)
		for _, child := range children[p.ID] {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}
	return out, depths
}
