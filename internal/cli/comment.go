package cli

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agisilaos/tod/internal/api"
	appcomments "github.com/agisilaos/tod/internal/app/comments"
	"github.com/agisilaos/tod/internal/output"
)

const commentFetchLimit = 5

func newCommentCmd(ctx *Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "List and add task comments",
	}

	var listTask string
	list := &cobra.Command{
		Use:   "list",
		Short: "List comments on a task, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commentList(ctx, listTask)
		},
	}
	list.Flags().StringVar(&listTask, "task", "", "Task id, URL or content")

	var addTask, content string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a comment to a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commentAdd(ctx, addTask, content)
		},
	}
	add.Flags().StringVar(&addTask, "task", "", "Task id, URL or content")
	add.Flags().StringVar(&content, "content", "", "Comment text")

	cmd.AddCommand(list, add)
	return cmd
}

func commentList(ctx *Context, taskRef string) error {
	if err := requireNonEmpty(taskRef, "--task"); err != nil {
		return err
	}
	id, err := resolveTaskID(ctx, taskRef, nil)
	if err != nil {
		return err
	}
	byTask, err := fetchComments(ctx, []string{id})
	if err != nil {
		return err
	}
	comments := appcomments.LatestFirst(byTask[id])
	switch ctx.Mode {
	case output.ModeJSON:
		return output.WriteJSON(ctx.Stdout, comments, output.Meta{RequestID: ctx.RequestID, Count: len(comments)})
	case output.ModeNDJSON:
		return output.WriteNDJSON(ctx.Stdout, comments)
	}
	if len(comments) == 0 {
		fmt.Fprintln(ctx.Stdout, "No comments")
		return nil
	}
	writeComments(ctx, timezone(ctx), comments)
	return nil
}

func commentAdd(ctx *Context, taskRef, content string) error {
	if err := requireNonEmpty(taskRef, "--task"); err != nil {
		return err
	}
	id, err := resolveTaskID(ctx, taskRef, nil)
	if err != nil {
		return err
	}
	return addComment(ctx, id, content)
}

func addComment(ctx *Context, taskID, content string) error {
	body, err := appcomments.BuildAddPayload(appcomments.AddInput{Content: content, TaskID: taskID})
	if err != nil {
		return &CodeError{Code: exitUsage, Err: err}
	}
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "comment add", body)
	}
	if err := ensureClient(ctx); err != nil {
		return err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	comment, reqID, err := ctx.Client.AddComment(reqCtx, body)
	if err != nil {
		return err
	}
	setRequestID(ctx, reqID)
	return writeSimpleResult(ctx, "commented", comment.ID)
}

// fetchComments loads comments for several tasks concurrently, at most
// commentFetchLimit requests in flight.
func fetchComments(ctx *Context, taskIDs []string) (map[string][]api.Comment, error) {
	if err := ensureClient(ctx); err != nil {
		return nil, err
	}
	reqCtx, cancel := requestContext(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(reqCtx)
	g.SetLimit(commentFetchLimit)

	var mu sync.Mutex
	out := make(map[string][]api.Comment, len(taskIDs))
	for _, id := range taskIDs {
		id := id
		g.Go(func() error {
			comments, reqID, err := ctx.Client.ListComments(gctx, id)
			if err != nil {
				return fmt.Errorf("comments for task %s: %w", id, err)
			}
			mu.Lock()
			defer mu.Unlock()
			out[id] = comments
			setRequestID(ctx, reqID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func commentsWanted(tasks []api.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if task.NoteCount > 0 {
			ids = append(ids, task.ID)
		}
	}
	return ids
}
