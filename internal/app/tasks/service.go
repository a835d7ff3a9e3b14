package tasks

import (
	"context"
	"errors"
	"strings"

	"github.com/agisilaos/tod/internal/api"
	apprefs "github.com/agisilaos/tod/internal/app/refs"
)

type TaskResolver interface {
	ResolveTaskRef(ctx context.Context, ref string) (api.Task, error)
}

type TaskFilterLister interface {
	ListByFilter(ctx context.Context, filter string) ([]api.Task, error)
}

type Service struct {
	Resolver TaskResolver
	Lister   TaskFilterLister
}

type ResolveCompletionInput struct {
	ID     string
	Ref    string
	Filter string
	NextID string
	Force  bool
}

type ResolveCompletionResult struct {
	Mode   string
	IDs    []string
	Filter string
}

type ResolveTaskTargetInput struct {
	ID  string
	Ref string
}

func (s Service) ResolveCompletionTargets(ctx context.Context, in ResolveCompletionInput) (ResolveCompletionResult, error) {
	filter := strings.TrimSpace(in.Filter)
	if filter != "" {
		if strings.TrimSpace(in.ID) != "" || strings.TrimSpace(in.Ref) != "" {
			return ResolveCompletionResult{}, errors.New("--filter cannot be combined with --id or a task reference")
		}
		if !in.Force {
			return ResolveCompletionResult{}, errors.New("bulk complete with --filter requires --force")
		}
		if s.Lister == nil {
			return ResolveCompletionResult{}, errors.New("task filter lister is not configured")
		}
		tasks, err := s.Lister.ListByFilter(ctx, filter)
		if err != nil {
			return ResolveCompletionResult{}, err
		}
		ids := make([]string, 0, len(tasks))
		for _, task := range tasks {
			ids = append(ids, task.ID)
		}
		return ResolveCompletionResult{Mode: "bulk", IDs: ids, Filter: filter}, nil
	}

	if strings.TrimSpace(in.ID) == "" && strings.TrimSpace(in.Ref) == "" {
		next := strings.TrimSpace(in.NextID)
		if next == "" {
			return ResolveCompletionResult{}, errors.New("no task given and no next task remembered; run 'tod task next' or pass --id")
		}
		return ResolveCompletionResult{Mode: "next", IDs: []string{next}}, nil
	}
	id, err := s.ResolveTaskTarget(ctx, ResolveTaskTargetInput{ID: in.ID, Ref: in.Ref})
	if err != nil {
		return ResolveCompletionResult{}, err
	}
	return ResolveCompletionResult{Mode: "single", IDs: []string{id}}, nil
}

func (s Service) ResolveTaskTarget(ctx context.Context, in ResolveTaskTargetInput) (string, error) {
	id, err := normalizeTaskID(in.ID)
	if err != nil {
		return "", err
	}
	ref := strings.TrimSpace(in.Ref)
	if id == "" && ref != "" {
		if normalized, direct, err := apprefs.NormalizeEntityRef(ref, "task"); err == nil && direct {
			return normalized, nil
		}
		if s.Resolver == nil {
			return "", errors.New("task resolver is not configured")
		}
		task, err := s.Resolver.ResolveTaskRef(ctx, ref)
		if err != nil {
			return "", err
		}
		id = task.ID
	}
	if id == "" {
		return "", errors.New("task id is required")
	}
	return id, nil
}

func normalizeTaskID(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	normalized, directID, err := apprefs.NormalizeEntityRef(value, "task")
	if err != nil {
		return "", err
	}
	if !directID {
		return trimmed, nil
	}
	return strings.TrimSpace(normalized), nil
}
