package cli

import (
	"fmt"

	"github.com/agisilaos/tod/internal/api"
	apptasks "github.com/agisilaos/tod/internal/app/tasks"
	"github.com/agisilaos/tod/internal/output"
)

func taskCreate(ctx *Context, in apptasks.MutationInput) error {
	body, err := apptasks.BuildCreatePayload(in, now(ctx), selectorResolver{ctx: ctx})
	if err != nil {
		return asUsage(err)
	}
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "task create", body)
	}
	if err := ensureClient(ctx); err != nil {
		return err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	task, reqID, err := ctx.Client.CreateTask(reqCtx, body)
	if err != nil {
		return err
	}
	setRequestID(ctx, reqID)
	return writeCreatedTask(ctx, task)
}

func taskQuickAdd(ctx *Context, args []string) error {
	text := joinArgs(args)
	if text == "" {
		return usageError("task text is required")
	}
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "task quick-add", map[string]any{"text": text})
	}
	if err := ensureClient(ctx); err != nil {
		return err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	task, reqID, err := ctx.Client.QuickAdd(reqCtx, text)
	if err != nil {
		return err
	}
	setRequestID(ctx, reqID)
	return writeCreatedTask(ctx, task)
}

func writeCreatedTask(ctx *Context, task api.Task) error {
	if ctx.Mode.Machine() {
		return output.WriteJSON(ctx.Stdout, task, output.Meta{RequestID: ctx.RequestID})
	}
	if ctx.Mode == output.ModePlain {
		fmt.Fprintln(ctx.Stdout, task.ID)
		return nil
	}
	fmt.Fprintf(ctx.Stdout, "created %s\n", formatTaskLine(ctx, ranker(ctx), task, projectNameMap(ctx)))
	return nil
}

func updateTask(ctx *Context, taskID string, body map[string]any, status string) error {
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "task update "+taskID, body)
	}
	if err := ensureClient(ctx); err != nil {
		return err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	_, reqID, err := ctx.Client.UpdateTask(reqCtx, taskID, body)
	if err != nil {
		return err
	}
	setRequestID(ctx, reqID)
	ctx.logger().Debug("updated task", "id", taskID, "fields", len(body))
	return writeSimpleResult(ctx, status, taskID)
}
