package cli

import (
	"fmt"
	"time"

	"github.com/agisilaos/tod/internal/api"
	apptasks "github.com/agisilaos/tod/internal/app/tasks"
	"github.com/agisilaos/tod/internal/clock"
	"github.com/agisilaos/tod/internal/due"
	"github.com/agisilaos/tod/internal/output"
)

func (ctx *Context) clock() clock.Provider {
	if ctx.Clock == nil {
		ctx.Clock = clock.System{}
	}
	return ctx.Clock
}

func location(ctx *Context) *time.Location {
	tz := timezone(ctx)
	loc, err := due.LoadLocation(tz)
	if err != nil {
		ctx.logger().Warn("unknown timezone; using UTC", "timezone", tz, "err", err)
		return time.UTC
	}
	return loc
}

func now(ctx *Context) time.Time {
	return ctx.clock().Now(location(ctx))
}

func plannedTasks(ctx *Context, plan apptasks.ListPlan) ([]api.Task, error) {
	switch plan.Mode {
	case "project":
		projectID, err := selectorResolver{ctx: ctx}.ResolveProjectSelector(plan.Project)
		if err != nil {
			return nil, err
		}
		return fetchTasks(ctx, api.TaskQuery{ProjectID: projectID})
	case "filter":
		ctx.logger().Debug("listing by filter", "query", plan.Filter)
		return fetchTasks(ctx, api.TaskQuery{Filter: plan.Filter})
	}
	return listActiveTasks(ctx)
}

func selectTasks(ctx *Context, in apptasks.ListInput) (apptasks.Ranker, []apptasks.Ranked, error) {
	plan, err := apptasks.PlanList(in)
	if err != nil {
		return apptasks.Ranker{}, nil, &CodeError{Code: exitUsage, Err: err}
	}
	fetched, err := plannedTasks(ctx, plan)
	if err != nil {
		return apptasks.Ranker{}, nil, err
	}
	r := ranker(ctx)
	return r, r.Apply(plan, fetched), nil
}

func taskList(ctx *Context, in apptasks.ListInput, withComments bool) error {
	r, ranked, err := selectTasks(ctx, in)
	if err != nil {
		return err
	}
	if !withComments {
		return writeTaskList(ctx, r, ranked)
	}
	byTask, err := fetchComments(ctx, commentsWanted(apptasks.Tasks(ranked)))
	if err != nil {
		return err
	}
	details := make([]taskDetail, 0, len(ranked))
	for _, item := range ranked {
		details = append(details, taskDetail{Task: item.Task, Value: item.Value, Comments: byTask[item.ID]})
	}
	switch ctx.Mode {
	case output.ModeJSON:
		return output.WriteJSON(ctx.Stdout, details, output.Meta{RequestID: ctx.RequestID, Count: len(details)})
	case output.ModeNDJSON:
		return output.WriteNDJSON(ctx.Stdout, details)
	}
	for i, item := range ranked {
		if i > 0 {
			fmt.Fprintln(ctx.Stdout)
		}
		if err := writeTaskView(ctx, r, item, byTask[item.ID]); err != nil {
			return err
		}
	}
	return nil
}

func taskNext(ctx *Context, in apptasks.ListInput) error {
	r, ranked, err := selectTasks(ctx, in)
	if err != nil {
		return err
	}
	task, ok := r.Next(ranked)
	if !ok {
		if ctx.Mode.Machine() {
			return output.WriteJSON(ctx.Stdout, nil, output.Meta{RequestID: ctx.RequestID})
		}
		fmt.Fprintln(ctx.Stdout, "No tasks")
		return nil
	}
	if err := ctx.store().RememberNextTask(task.ID); err != nil {
		return fmt.Errorf("remember next task: %w", err)
	}
	ctx.logger().Debug("remembered next task", "id", task.ID, "value", task.Value)
	var comments []api.Comment
	if task.NoteCount > 0 {
		byTask, err := fetchComments(ctx, []string{task.ID})
		if err != nil {
			return err
		}
		comments = byTask[task.ID]
	}
	return writeTaskView(ctx, r, task, comments)
}
