package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/agisilaos/tod/internal/api"
	appcomments "github.com/agisilaos/tod/internal/app/comments"
	apptasks "github.com/agisilaos/tod/internal/app/tasks"
	"github.com/agisilaos/tod/internal/due"
	"github.com/agisilaos/tod/internal/output"
)

const taskURLBase = "https://app.todoist.com/app/task/"

type taskDetail struct {
	Task     api.Task      `json:"task"`
	Value    uint32        `json:"value"`
	DueError string        `json:"due_error,omitempty"`
	Comments []api.Comment `json:"comments,omitempty"`
}

func writeTaskList(ctx *Context, r apptasks.Ranker, ranked []apptasks.Ranked) error {
	switch ctx.Mode {
	case output.ModeJSON:
		return output.WriteJSON(ctx.Stdout, ranked, output.Meta{RequestID: ctx.RequestID, Count: len(ranked)})
	case output.ModeNDJSON:
		return output.WriteNDJSON(ctx.Stdout, ranked)
	case output.ModePlain:
		rows := make([][]string, 0, len(ranked))
		for _, item := range ranked {
			dueText, _ := describeDue(r, item.Task)
			rows = append(rows, []string{item.ID, item.Priority.String(), dueText, fmt.Sprint(item.Value), item.Content})
		}
		return output.WritePlain(ctx.Stdout, rows)
	}
	if len(ranked) == 0 {
		fmt.Fprintln(ctx.Stdout, "No tasks")
		return nil
	}
	projects := projectNameMap(ctx)
	for _, item := range ranked {
		fmt.Fprintln(ctx.Stdout, formatTaskLine(ctx, r, item.Task, projects))
	}
	return nil
}

func formatTaskLine(ctx *Context, r apptasks.Ranker, task api.Task, projects map[string]string) string {
	s := ctx.Styles
	parts := []string{s.Link(taskURLBase+task.ID, s.Priority(int(task.Priority), task.Content))}
	if text, err := describeDue(r, task); err != nil {
		parts = append(parts, s.Glyph(output.IconDue), s.Warn("invalid due date"))
	} else if text != "" {
		if r.IsOverdue(task) {
			text = s.Warn(text)
		}
		parts = append(parts, s.Glyph(output.IconDue), text)
		if apptasks.IsRecurring(task) {
			parts = append(parts, s.Glyph(output.IconRecurring))
		}
	}
	if task.Deadline != nil && task.Deadline.Date != "" {
		parts = append(parts, s.Dim("deadline "+task.Deadline.Date))
	}
	if len(task.Labels) > 0 {
		parts = append(parts, s.Glyph(output.IconLabel), strings.Join(task.Labels, " "))
	}
	if name, ok := projects[task.ProjectID]; ok {
		parts = append(parts, s.Glyph(output.IconProject), name)
	}
	return strings.Join(parts, " ")
}

func describeDue(r apptasks.Ranker, task api.Task) (string, error) {
	resolved, err := r.Resolve(task)
	if err != nil {
		return "", err
	}
	loc := resolved.Location
	if loc == nil {
		loc = time.UTC
	}
	today := r.Today(loc)
	day := func(t time.Time) string {
		switch due.DaysBetween(today, t) {
		case 0:
			return "today"
		case 1:
			return "tomorrow"
		case -1:
			return "yesterday"
		}
		return due.FormatDate(t)
	}
	switch resolved.Kind {
	case due.KindDate:
		return day(resolved.Date), nil
	case due.KindDateTime:
		instant := resolved.Instant.In(loc)
		return day(due.Midnight(instant, loc)) + " " + instant.Format("15:04"), nil
	}
	return "", nil
}

func writeTaskView(ctx *Context, r apptasks.Ranker, item apptasks.Ranked, comments []api.Comment) error {
	task := item.Task
	detail := taskDetail{Task: task, Value: item.Value, Comments: comments}
	dueText, dueErr := describeDue(r, task)
	if dueErr != nil {
		detail.DueError = dueErr.Error()
	}
	if ctx.Mode.Machine() {
		return output.WriteJSON(ctx.Stdout, detail, output.Meta{RequestID: ctx.RequestID})
	}
	s := ctx.Styles
	out := ctx.Stdout
	if ctx.Mode == output.ModeHuman {
		fmt.Fprintln(out, s.Link(taskURLBase+task.ID, s.Priority(int(task.Priority), task.Content)))
	} else {
		fmt.Fprintf(out, "content: %s\n", task.Content)
	}
	fmt.Fprintf(out, "id: %s\n", task.ID)
	if name, ok := projectNameMap(ctx)[task.ProjectID]; ok {
		fmt.Fprintf(out, "project: %s\n", name)
	}
	fmt.Fprintf(out, "priority: %s\n", task.Priority)
	switch {
	case dueErr != nil:
		fmt.Fprintf(out, "due: %v\n", dueErr)
	case dueText != "":
		fmt.Fprintf(out, "due: %s\n", dueText)
		if apptasks.IsRecurring(task) {
			fmt.Fprintf(out, "recurring: %s\n", task.Due.String)
		}
	}
	if task.Deadline != nil && task.Deadline.Date != "" {
		fmt.Fprintf(out, "deadline: %s\n", task.Deadline.Date)
	}
	if len(task.Labels) > 0 {
		fmt.Fprintf(out, "labels: %s\n", strings.Join(task.Labels, ", "))
	}
	if task.Duration != nil && task.Duration.Amount > 0 {
		fmt.Fprintf(out, "duration: %d %s\n", task.Duration.Amount, task.Duration.Unit)
	}
	fmt.Fprintf(out, "value: %d\n", detail.Value)
	if desc := strings.TrimSpace(task.Description); desc != "" {
		fmt.Fprintf(out, "\n%s\n", desc)
	}
	if len(comments) > 0 {
		fmt.Fprintln(out)
		writeComments(ctx, r.Timezone, comments)
	}
	return nil
}

func writeComments(ctx *Context, tz string, comments []api.Comment) {
	s := ctx.Styles
	loc, err := due.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	out := ctx.Stdout
	fmt.Fprintln(out, s.Title(fmt.Sprintf("%s Comments %s", output.IconComment, output.IconComment)))
	for _, comment := range appcomments.LatestFirst(comments) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, s.Dim("Posted "+formatPosted(comment.PostedAt, loc)))
		if a := comment.Attachment; a != nil && a.Link() != "" {
			fmt.Fprintf(out, "Attachment %s\n", s.Link(a.Link(), a.Name()))
		}
		fmt.Fprintln(out, appcomments.Truncate(comment.Content, ctx.Config.MaxCommentLength))
	}
}

func formatPosted(value string, loc *time.Location) string {
	posted, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return value
	}
	return posted.In(loc).Format("2006-01-02 15:04 MST")
}
