package tasks

import (
	"errors"
	"strings"
	"time"

	"github.com/agisilaos/tod/internal/api"
)

type MutationInput struct {
	Content     string
	Description string
	Project     string
	Section     string
	ParentID    string
	Labels      []string
	Priority    api.Priority
	Due         string
	DueLang     string
	Deadline    string
}

type SelectorResolver interface {
	ResolveProjectSelector(reference string) (string, error)
	ResolveSectionSelector(reference, projectID string) (string, error)
}

func BuildCreatePayload(in MutationInput, now time.Time, resolver SelectorResolver) (map[string]any, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, errors.New("--content is required")
	}
	body := map[string]any{"content": content}
	if err := applyMutationPayload(body, in, now, resolver); err != nil {
		return nil, err
	}
	return body, nil
}

func BuildUpdatePayload(in MutationInput, now time.Time, resolver SelectorResolver) (map[string]any, error) {
	body := map[string]any{}
	if content := strings.TrimSpace(in.Content); content != "" {
		body["content"] = content
	}
	if err := applyMutationPayload(body, in, now, resolver); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New("nothing to update")
	}
	return body, nil
}

func BuildMovePayload(project, section string, resolver SelectorResolver) (map[string]any, error) {
	if strings.TrimSpace(project) == "" && strings.TrimSpace(section) == "" {
		return nil, errors.New("--project or --section is required")
	}
	body := map[string]any{}
	projectID, err := resolver.ResolveProjectSelector(project)
	if err != nil {
		return nil, err
	}
	if projectID != "" {
		body["project_id"] = projectID
	}
	sectionID, err := resolver.ResolveSectionSelector(section, projectID)
	if err != nil {
		return nil, err
	}
	if sectionID != "" {
		// A section move implies its project; sending both is rejected.
		delete(body, "project_id")
		body["section_id"] = sectionID
	}
	return body, nil
}

func BuildSchedulePayload(dueString string, clear bool) (map[string]any, error) {
	dueString = strings.TrimSpace(dueString)
	switch {
	case clear && dueString != "":
		return nil, errors.New("--due cannot be combined with --clear")
	case clear:
		return map[string]any{"due_string": "no date"}, nil
	case dueString == "":
		return nil, errors.New("--due or --clear is required")
	}
	return map[string]any{"due_string": dueString}, nil
}

func BuildDeadlinePayload(date string, clear bool, now time.Time) (map[string]any, error) {
	date = strings.TrimSpace(date)
	switch {
	case clear && date != "":
		return nil, errors.New("--date cannot be combined with --clear")
	case clear:
		return map[string]any{"deadline_date": nil}, nil
	case date == "":
		return nil, errors.New("--date or --clear is required")
	}
	normalized, err := NormalizeDateValue(date, now)
	if err != nil {
		return nil, err
	}
	return map[string]any{"deadline_date": normalized}, nil
}

func MergeLabels(existing, add []string) []string {
	out := append([]string(nil), existing...)
	seen := make(map[string]bool, len(existing))
	for _, label := range existing {
		seen[strings.ToLower(label)] = true
	}
	for _, label := range add {
		label = strings.TrimPrefix(strings.TrimSpace(label), "@")
		if label == "" || seen[strings.ToLower(label)] {
			continue
		}
		seen[strings.ToLower(label)] = true
		out = append(out, label)
	}
	return out
}

func applyMutationPayload(body map[string]any, in MutationInput, now time.Time, resolver SelectorResolver) error {
	if in.Description != "" {
		body["description"] = in.Description
	}
	projectID, err := resolver.ResolveProjectSelector(in.Project)
	if err != nil {
		return err
	}
	if projectID != "" {
		body["project_id"] = projectID
	}
	sectionID, err := resolver.ResolveSectionSelector(in.Section, projectID)
	if err != nil {
		return err
	}
	if sectionID != "" {
		body["section_id"] = sectionID
	}
	if in.ParentID != "" {
		body["parent_id"] = in.ParentID
	}
	if labels := MergeLabels(nil, in.Labels); len(labels) > 0 {
		body["labels"] = labels
	}
	if in.Priority > 0 {
		body["priority"] = int(in.Priority)
	}
	if in.Due != "" {
		body["due_string"] = in.Due
	}
	if in.DueLang != "" {
		body["due_lang"] = in.DueLang
	}
	if in.Deadline != "" {
		deadline, err := NormalizeDateValue(in.Deadline, now)
		if err != nil {
			return err
		}
		body["deadline_date"] = deadline
	}
	return nil
}
