package cli

import (
	"github.com/spf13/cobra"

	"github.com/agisilaos/tod/internal/api"
	apptasks "github.com/agisilaos/tod/internal/app/tasks"
)

type priorityFlag api.Priority

func (p *priorityFlag) String() string {
	if *p == 0 {
		return ""
	}
	return api.Priority(*p).String()
}

func (p *priorityFlag) Set(value string) error {
	priority, err := api.ParsePriority(value)
	if err != nil {
		return err
	}
	*p = priorityFlag(priority)
	return nil
}

func (p *priorityFlag) Type() string {
	return "priority"
}

func newTaskCmd(ctx *Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Work with individual tasks",
	}
	cmd.AddCommand(
		newTaskListCmd(ctx),
		newTaskNextCmd(ctx),
		newTaskCompleteCmd(ctx),
		newTaskCreateCmd(ctx),
		newTaskQuickAddCmd(ctx),
		newTaskViewCmd(ctx),
		newTaskMoveCmd(ctx),
		newTaskLabelCmd(ctx),
		newTaskScheduleCmd(ctx),
		newTaskDeadlineCmd(ctx),
		newTaskPriorityCmd(ctx),
		newTaskCommentCmd(ctx),
		newTaskDeleteCmd(ctx),
	)
	return cmd
}

func addSelectionFlags(cmd *cobra.Command, in *apptasks.ListInput) {
	cmd.Flags().StringVarP(&in.Project, "project", "p", "", "Project name, id or URL")
	cmd.Flags().StringVar(&in.Filter, "filter", "", "Todoist filter query, or text to search for")
	cmd.MarkFlagsMutuallyExclusive("project", "filter")
}

func newTaskListCmd(ctx *Context) *cobra.Command {
	var in apptasks.ListInput
	var withComments bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, highest value first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return taskList(ctx, in, withComments)
		},
	}
	addSelectionFlags(cmd, &in)
	f := cmd.Flags()
	f.StringVar(&in.Sort, "sort", "", "Order: value, datetime or todoist")
	f.BoolVar(&in.Scheduled, "scheduled", false, "Only tasks with a time today")
	f.BoolVar(&in.Overdue, "overdue", false, "Only overdue tasks")
	f.BoolVar(&in.Unscheduled, "unscheduled", false, "Only tasks without a date, or overdue")
	f.BoolVar(&in.Recurring, "recurring", false, "Only recurring tasks")
	f.BoolVar(&in.NotInFuture, "not-in-future", false, "Hide tasks due after today")
	f.BoolVar(&withComments, "comments", false, "Include comments")
	return cmd
}

func newTaskNextCmd(ctx *Context) *cobra.Command {
	var in apptasks.ListInput
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the most valuable task and remember it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return taskNext(ctx, in)
		},
	}
	addSelectionFlags(cmd, &in)
	return cmd
}

func newTaskCompleteCmd(ctx *Context) *cobra.Command {
	var id, filter string
	cmd := &cobra.Command{
		Use:     "complete [task]",
		Aliases: []string{"done"},
		Short:   "Complete a task, by default the remembered next task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return taskComplete(ctx, id, args, filter)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Task id or URL")
	cmd.Flags().StringVar(&filter, "filter", "", "Complete every task matching a filter (needs --force)")
	return cmd
}

func newTaskCreateCmd(ctx *Context) *cobra.Command {
	var in apptasks.MutationInput
	var priority priorityFlag
	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"add"},
		Short:   "Create a task",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Priority = api.Priority(priority)
			return taskCreate(ctx, in)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&in.Content, "content", "c", "", "Task content")
	f.StringVarP(&in.Description, "description", "d", "", "Task description")
	f.StringVarP(&in.Project, "project", "p", "", "Project name, id or URL")
	f.StringVar(&in.Section, "section", "", "Section name or id")
	f.StringVar(&in.ParentID, "parent", "", "Parent task id")
	f.StringArrayVarP(&in.Labels, "label", "l", nil, "Label (repeatable)")
	f.Var(&priority, "priority", "Priority p1..p4")
	f.StringVar(&in.Due, "due", "", "Due date in natural language")
	f.StringVar(&in.DueLang, "due-lang", "", "Language of --due")
	f.StringVar(&in.Deadline, "deadline", "", "Deadline date")
	return cmd
}

func newTaskQuickAddCmd(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:     "quick-add <text...>",
		Aliases: []string{"q"},
		Short:   "Create a task using Todoist's quick add syntax",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return taskQuickAdd(ctx, args)
		},
	}
}

func newTaskViewCmd(ctx *Context) *cobra.Command {
	var id string
	var withComments bool
	cmd := &cobra.Command{
		Use:   "view [task]",
		Short: "Show a task and how it is valued",
		RunE: func(cmd *cobra.Command, args []string) error {
			return taskView(ctx, id, args, withComments)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Task id or URL")
	cmd.Flags().BoolVar(&withComments, "comments", false, "Include comments")
	return cmd
}

func newTaskMoveCmd(ctx *Context) *cobra.Command {
	var id, project, section string
	cmd := &cobra.Command{
		Use:   "move [task]",
		Short: "Move a task to another project or section",
		RunE: func(cmd *cobra.Command, args []string) error {
			return taskMove(ctx, id, args, project, section)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Task id or URL")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Target project")
	cmd.Flags().StringVar(&section, "section", "", "Target section")
	return cmd
}

func newTaskLabelCmd(ctx *Context) *cobra.Command {
	var id string
	var labels []string
	cmd := &cobra.Command{
		Use:   "label [task]",
		Short: "Add labels to a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return taskLabel(ctx, id, args, labels)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Task id or URL")
	cmd.Flags().StringArrayVarP(&labels, "label", "l", nil, "Label (repeatable)")
	return cmd
}

func newTaskScheduleCmd(ctx *Context) *cobra.Command {
	var id, dueString string
	var clear bool
	cmd := &cobra.Command{
		Use:   "schedule [task]",
		Short: "Set or clear a task's due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return taskSchedule(ctx, id, args, dueString, clear)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Task id or URL")
	cmd.Flags().StringVar(&dueString, "due", "", "Due date in natural language")
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the due date")
	return cmd
}

func newTaskDeadlineCmd(ctx *Context) *cobra.Command {
	var id, date string
	var clear bool
	cmd := &cobra.Command{
		Use:   "deadline [task]",
		Short: "Set or clear a task's deadline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return taskDeadline(ctx, id, args, date, clear)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Task id or URL")
	cmd.Flags().StringVar(&date, "date", "", "Deadline: YYYY-MM-DD, today, tomorrow, a weekday or 'in N days'")
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the deadline")
	return cmd
}

func newTaskPriorityCmd(ctx *Context) *cobra.Command {
	var id string
	var priority priorityFlag
	cmd := &cobra.Command{
		Use:   "priority [task]",
		Short: "Set a task's priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			return taskPriority(ctx, id, args, api.Priority(priority))
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Task id or URL")
	cmd.Flags().Var(&priority, "priority", "Priority p1..p4")
	return cmd
}

func newTaskCommentCmd(ctx *Context) *cobra.Command {
	var id, content string
	cmd := &cobra.Command{
		Use:   "comment [task]",
		Short: "Comment on a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := resolveTaskID(ctx, id, args)
			if err != nil {
				return err
			}
			return addComment(ctx, taskID, content)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Task id or URL")
	cmd.Flags().StringVar(&content, "content", "", "Comment text")
	return cmd
}

func newTaskDeleteCmd(ctx *Context) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:     "delete [task]",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return taskDelete(ctx, id, args)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Task id or URL")
	return cmd
}
