package cli

import "github.com/agisilaos/tod/internal/api"

type lookupCache struct {
	projectsLoaded bool
	projects       []api.Project

	sectionsByProject map[string][]api.Section

	labelsLoaded bool
	labels       []api.Label

	tasksLoaded bool
	tasks       []api.Task

	timezone string
}

func (ctx *Context) cache() *lookupCache {
	if ctx.lookupCache == nil {
		ctx.lookupCache = &lookupCache{sectionsByProject: map[string][]api.Section{}}
	}
	return ctx.lookupCache
}

func listAllProjects(ctx *Context) ([]api.Project, error) {
	cache := ctx.cache()
	if cache.projectsLoaded {
		return cache.projects, nil
	}
	if err := ensureClient(ctx); err != nil {
		return nil, err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	projects, reqID, err := ctx.Client.ListProjects(reqCtx)
	if err != nil {
		return nil, err
	}
	setRequestID(ctx, reqID)
	cache.projects, cache.projectsLoaded = projects, true
	return projects, nil
}

func listAllSections(ctx *Context, projectID string) ([]api.Section, error) {
	cache := ctx.cache()
	if sections, ok := cache.sectionsByProject[projectID]; ok {
		return sections, nil
	}
	if err := ensureClient(ctx); err != nil {
		return nil, err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	sections, reqID, err := ctx.Client.ListSections(reqCtx, projectID)
	if err != nil {
		return nil, err
	}
	setRequestID(ctx, reqID)
	cache.sectionsByProject[projectID] = sections
	return sections, nil
}

func listAllLabels(ctx *Context) ([]api.Label, error) {
	cache := ctx.cache()
	if cache.labelsLoaded {
		return cache.labels, nil
	}
	if err := ensureClient(ctx); err != nil {
		return nil, err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	labels, reqID, err := ctx.Client.ListLabels(reqCtx)
	if err != nil {
		return nil, err
	}
	setRequestID(ctx, reqID)
	cache.labels, cache.labelsLoaded = labels, true
	return labels, nil
}

func listActiveTasks(ctx *Context) ([]api.Task, error) {
	cache := ctx.cache()
	if cache.tasksLoaded {
		return cache.tasks, nil
	}
	tasks, err := fetchTasks(ctx, api.TaskQuery{})
	if err != nil {
		return nil, err
	}
	cache.tasks, cache.tasksLoaded = tasks, true
	return tasks, nil
}

func fetchTasks(ctx *Context, query api.TaskQuery) ([]api.Task, error) {
	if err := ensureClient(ctx); err != nil {
		return nil, err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	tasks, reqID, err := ctx.Client.ListTasks(reqCtx, query)
	if err != nil {
		return nil, err
	}
	setRequestID(ctx, reqID)
	return tasks, nil
}

func projectNameMap(ctx *Context) map[string]string {
	projects, err := listAllProjects(ctx)
	if err != nil {
		ctx.logger().Debug("project names unavailable", "err", err)
		return nil
	}
	names := make(map[string]string, len(projects))
	for _, project := range projects {
		names[project.ID] = project.Name
	}
	return names
}
