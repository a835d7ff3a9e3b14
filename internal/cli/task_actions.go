package cli

import (
	"fmt"

	"github.com/agisilaos/tod/internal/api"
	applabels "github.com/agisilaos/tod/internal/app/labels"
	apptasks "github.com/agisilaos/tod/internal/app/tasks"
	"github.com/agisilaos/tod/internal/config"
	"github.com/agisilaos/tod/internal/due"
	"github.com/agisilaos/tod/internal/output"
)

type completionResult struct {
	Completed      []string `json:"completed"`
	Mode           string   `json:"mode"`
	CompletedToday int      `json:"completed_today"`
}

func taskComplete(ctx *Context, id string, args []string, filter string) error {
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	target, err := taskService(ctx).ResolveCompletionTargets(reqCtx, apptasks.ResolveCompletionInput{
		ID:     id,
		Ref:    joinArgs(args),
		Filter: filter,
		NextID: ctx.Config.NextTaskID,
		Force:  ctx.Global.Force,
	})
	if err != nil {
		return asUsage(err)
	}
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "task complete", map[string]any{"ids": target.IDs, "mode": target.Mode})
	}
	if err := ensureClient(ctx); err != nil {
		return err
	}
	result := completionResult{Mode: target.Mode, Completed: []string{}}
	var done config.Completed
	for _, taskID := range target.IDs {
		if done, err = closeAndRecord(ctx, taskID); err != nil {
			return err
		}
		result.Completed = append(result.Completed, taskID)
	}
	result.CompletedToday = done.Count
	if ctx.Mode.Machine() {
		return output.WriteJSON(ctx.Stdout, result, output.Meta{RequestID: ctx.RequestID, Count: len(result.Completed)})
	}
	for _, taskID := range result.Completed {
		fmt.Fprintf(ctx.Stdout, "completed %s\n", taskID)
	}
	if done.Count > 0 {
		fmt.Fprintf(ctx.Stdout, "%s\n", ctx.Styles.Title(fmt.Sprintf("%d completed today", done.Count)))
	}
	return nil
}

func closeAndRecord(ctx *Context, taskID string) (config.Completed, error) {
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	reqID, err := ctx.Client.CloseTask(reqCtx, taskID)
	if err != nil {
		return config.Completed{}, fmt.Errorf("complete %s: %w", taskID, err)
	}
	setRequestID(ctx, reqID)
	today := due.FormatDate(ctx.clock().Today(location(ctx)))
	done, err := ctx.store().RecordCompletion(taskID, today)
	if err != nil {
		return config.Completed{}, fmt.Errorf("record completion: %w", err)
	}
	return done, nil
}

func taskView(ctx *Context, id string, args []string, withComments bool) error {
	taskID, err := resolveTaskID(ctx, id, args)
	if err != nil {
		return err
	}
	task, err := getTask(ctx, taskID)
	if err != nil {
		return err
	}
	var comments []api.Comment
	if withComments {
		byTask, err := fetchComments(ctx, []string{task.ID})
		if err != nil {
			return err
		}
		comments = byTask[task.ID]
	}
	r := ranker(ctx)
	return writeTaskView(ctx, r, r.Score(task), comments)
}

func taskMove(ctx *Context, id string, args []string, project, section string) error {
	taskID, err := resolveTaskID(ctx, id, args)
	if err != nil {
		return err
	}
	body, err := apptasks.BuildMovePayload(project, section, selectorResolver{ctx: ctx})
	if err != nil {
		return asUsage(err)
	}
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "task move "+taskID, body)
	}
	if err := ensureClient(ctx); err != nil {
		return err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	_, reqID, err := ctx.Client.MoveTask(reqCtx, taskID, body)
	if err != nil {
		return err
	}
	setRequestID(ctx, reqID)
	return writeSimpleResult(ctx, "moved", taskID)
}

func taskLabel(ctx *Context, id string, args []string, labels []string) error {
	if len(labels) == 0 {
		return usageError("--label is required")
	}
	taskID, err := resolveTaskID(ctx, id, args)
	if err != nil {
		return err
	}
	task, err := getTask(ctx, taskID)
	if err != nil {
		return err
	}
	known, err := listAllLabels(ctx)
	if err != nil {
		return err
	}
	merged := apptasks.MergeLabels(task.Labels, applabels.Canonical(labels, known))
	return updateTask(ctx, taskID, map[string]any{"labels": merged}, "labelled")
}

func taskSchedule(ctx *Context, id string, args []string, dueString string, clear bool) error {
	body, err := apptasks.BuildSchedulePayload(dueString, clear)
	if err != nil {
		return &CodeError{Code: exitUsage, Err: err}
	}
	taskID, err := resolveTaskID(ctx, id, args)
	if err != nil {
		return err
	}
	return updateTask(ctx, taskID, body, "scheduled")
}

func taskDeadline(ctx *Context, id string, args []string, date string, clear bool) error {
	body, err := apptasks.BuildDeadlinePayload(date, clear, now(ctx))
	if err != nil {
		return &CodeError{Code: exitUsage, Err: err}
	}
	taskID, err := resolveTaskID(ctx, id, args)
	if err != nil {
		return err
	}
	return updateTask(ctx, taskID, body, "updated")
}

func taskPriority(ctx *Context, id string, args []string, priority api.Priority) error {
	taskID, err := resolveTaskID(ctx, id, args)
	if err != nil {
		return err
	}
	if priority == 0 {
		if priority, err = promptPriority(ctx, "Priority for "+taskID); err != nil {
			return err
		}
	}
	return updateTask(ctx, taskID, map[string]any{"priority": int(priority)}, "prioritized")
}

func promptPriority(ctx *Context, title string) (api.Priority, error) {
	if err := requireInteractive(ctx, "pass --priority"); err != nil {
		return 0, err
	}
	choice, err := ctx.Prompter.Select(title, []string{"p1", "p2", "p3", "p4"})
	if err != nil {
		return 0, err
	}
	return api.ParsePriority(choice)
}

func taskDelete(ctx *Context, id string, args []string) error {
	taskID, err := resolveTaskID(ctx, id, args)
	if err != nil {
		return err
	}
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "task delete "+taskID, nil)
	}
	ok, err := confirm(ctx, fmt.Sprintf("Delete task %s?", taskID))
	if err != nil {
		return err
	}
	if !ok {
		return &CodeError{Code: exitError, Err: errAborted}
	}
	if err := ensureClient(ctx); err != nil {
		return err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	reqID, err := ctx.Client.DeleteTask(reqCtx, taskID)
	if err != nil {
		return err
	}
	setRequestID(ctx, reqID)
	return writeSimpleResult(ctx, "deleted", taskID)
}
