package sections

import (
	"errors"
	"strings"
)

type AddInput struct {
	Name      string
	ProjectID string
}

func BuildAddPayload(in AddInput) (map[string]any, error) {
	name := strings.TrimSpace(in.Name)
	projectID := strings.TrimSpace(in.ProjectID)
	if name == "" || projectID == "" {
		return nil, errors.New("--name and --project are required")
	}
	return map[string]any{"name": name, "project_id": projectID}, nil
}
