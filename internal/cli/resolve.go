package cli

import (
	"context"
	"strings"

	"github.com/agisilaos/tod/internal/api"
	"github.com/agisilaos/tod/internal/app/refs"
	apptasks "github.com/agisilaos/tod/internal/app/tasks"
	"github.com/agisilaos/tod/internal/due"
)

type selectorResolver struct {
	ctx *Context
}

func (r selectorResolver) ResolveProjectSelector(reference string) (string, error) {
	if strings.TrimSpace(reference) == "" {
		return "", nil
	}
	if id, direct, err := refs.NormalizeEntityRef(reference, "project"); err != nil {
		return "", usageError("%v", err)
	} else if direct {
		return id, nil
	}
	projects, err := listAllProjects(r.ctx)
	if err != nil {
		return "", err
	}
	return refs.Match("project", reference, projects, func(p api.Project) string { return p.Name }, func(p api.Project) string { return p.ID })
}

func (r selectorResolver) ResolveSectionSelector(reference, projectID string) (string, error) {
	if strings.TrimSpace(reference) == "" {
		return "", nil
	}
	if id, direct, err := refs.NormalizeEntityRef(reference, "section"); err != nil {
		return "", usageError("%v", err)
	} else if direct {
		return id, nil
	}
	sections, err := listAllSections(r.ctx, projectID)
	if err != nil {
		return "", err
	}
	return refs.Match("section", reference, sections, func(s api.Section) string { return s.Name }, func(s api.Section) string { return s.ID })
}

type taskLookup struct {
	ctx *Context
}

func (l taskLookup) ResolveTaskRef(_ context.Context, ref string) (api.Task, error) {
	tasks, err := listActiveTasks(l.ctx)
	if err != nil {
		return api.Task{}, err
	}
	id, err := refs.Match("task", ref, tasks, func(t api.Task) string { return t.Content }, func(t api.Task) string { return t.ID })
	if err != nil {
		return api.Task{}, err
	}
	for _, task := range tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return api.Task{ID: id}, nil
}

func (l taskLookup) ListByFilter(_ context.Context, filter string) ([]api.Task, error) {
	return fetchTasks(l.ctx, api.TaskQuery{Filter: filter})
}

func taskService(ctx *Context) apptasks.Service {
	lookup := taskLookup{ctx: ctx}
	return apptasks.Service{Resolver: lookup, Lister: lookup}
}

func resolveTaskID(ctx *Context, id string, args []string) (string, error) {
	ref := joinArgs(args)
	if strings.TrimSpace(id) == "" && strings.TrimSpace(ref) == "" {
		return "", usageError("--id or a task reference is required")
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	return taskService(ctx).ResolveTaskTarget(reqCtx, apptasks.ResolveTaskTargetInput{ID: id, Ref: ref})
}

func getTask(ctx *Context, id string) (api.Task, error) {
	if err := ensureClient(ctx); err != nil {
		return api.Task{}, err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	task, reqID, err := ctx.Client.GetTask(reqCtx, id)
	setRequestID(ctx, reqID)
	return task, err
}

// timezone is the zone used for due dates that carry none: the configured
// zone, else the account zone reported by Todoist, else UTC.
func timezone(ctx *Context) string {
	if tz := strings.TrimSpace(ctx.Config.Timezone); tz != "" {
		return tz
	}
	cache := ctx.cache()
	if cache.timezone != "" {
		return cache.timezone
	}
	tz, err := accountTimezone(ctx)
	if err != nil {
		ctx.logger().Debug("account timezone unavailable; using UTC", "err", err)
		tz = "UTC"
	}
	cache.timezone = tz
	return tz
}

func accountTimezone(ctx *Context) (string, error) {
	if err := ensureClient(ctx); err != nil {
		return "", err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	user, reqID, err := ctx.Client.CurrentUser(reqCtx)
	if err != nil {
		return "", err
	}
	setRequestID(ctx, reqID)
	for _, candidate := range []string{user.TzInfo.Timezone, user.TzInfo.GMTString} {
		if candidate == "" {
			continue
		}
		if _, err := due.LoadLocation(candidate); err == nil {
			return candidate, nil
		}
	}
	return "UTC", nil
}

func ranker(ctx *Context) apptasks.Ranker {
	r := apptasks.NewRanker(ctx.Clock, ctx.Config.Weights(), timezone(ctx))
	logger := ctx.logger()
	r.Warn = func(task api.Task, err error) {
		logger.Warn("could not read due date", "task", task.ID, "content", truncateString(task.Content, 40), "err", err)
	}
	return r
}
