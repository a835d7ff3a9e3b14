package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agisilaos/tod/internal/api"
	applabels "github.com/agisilaos/tod/internal/app/labels"
	apptasks "github.com/agisilaos/tod/internal/app/tasks"
)

const (
	choiceComplete = "complete"
	choiceSkip     = "skip"
	choiceQuit     = "quit"
	choiceCustom   = "custom"
	choiceNoDate   = "remove date"
)

var scheduleChoices = []string{"today", "tomorrow", "next week", choiceCustom, choiceNoDate, choiceComplete, choiceSkip, choiceQuit}

func newListCmd(ctx *Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Walk through a list of tasks interactively",
	}
	cmd.AddCommand(
		newWalkCmd(ctx, "process", "Complete or skip each task in value order", listProcess),
		newWalkCmd(ctx, "prioritize", "Set a priority on tasks that have none", listPrioritize),
		newWalkCmd(ctx, "schedule", "Give unscheduled and overdue tasks a date", listSchedule),
		newListLabelCmd(ctx),
	)
	return cmd
}

type walkFunc func(ctx *Context, r apptasks.Ranker, tasks []api.Task) (int, error)

func newWalkCmd(ctx *Context, name, short string, walk walkFunc) *cobra.Command {
	var in apptasks.ListInput
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWalk(ctx, name, in, walk)
		},
	}
	addSelectionFlags(cmd, &in)
	cmd.Flags().StringVar(&in.Sort, "sort", "", "Order: value, datetime or todoist")
	return cmd
}

func newListLabelCmd(ctx *Context) *cobra.Command {
	var in apptasks.ListInput
	var offered []string
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Pick a label for each task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWalk(ctx, "label", in, func(ctx *Context, r apptasks.Ranker, tasks []api.Task) (int, error) {
				return listLabel(ctx, r, tasks, offered)
			})
		},
	}
	addSelectionFlags(cmd, &in)
	cmd.Flags().StringVar(&in.Sort, "sort", "", "Order: value, datetime or todoist")
	cmd.Flags().StringArrayVarP(&offered, "label", "l", nil, "Label to offer (repeatable, default all)")
	return cmd
}

func runWalk(ctx *Context, name string, in apptasks.ListInput, walk walkFunc) error {
	if err := requireInteractive(ctx, "list "+name+" needs a terminal"); err != nil {
		return err
	}
	r, ranked, err := selectTasks(ctx, in)
	if err != nil {
		return err
	}
	tasks := apptasks.Tasks(ranked)
	if len(tasks) == 0 {
		fmt.Fprintln(ctx.Stdout, "No tasks")
		return nil
	}
	changed, err := walk(ctx, r, tasks)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout, "%s\n", ctx.Styles.Title(fmt.Sprintf("%d of %d tasks updated", changed, len(tasks))))
	return nil
}

func listProcess(ctx *Context, r apptasks.Ranker, tasks []api.Task) (int, error) {
	projects := projectNameMap(ctx)
	changed := 0
	for _, task := range tasks {
		choice, err := ctx.Prompter.Select(formatTaskLine(ctx, r, task, projects), []string{choiceComplete, choiceSkip, choiceQuit})
		if err != nil {
			return changed, err
		}
		switch choice {
		case choiceQuit:
			return changed, nil
		case choiceComplete:
			if err := completeOne(ctx, task.ID); err != nil {
				return changed, err
			}
			changed++
		}
	}
	return changed, nil
}

func listPrioritize(ctx *Context, r apptasks.Ranker, tasks []api.Task) (int, error) {
	projects := projectNameMap(ctx)
	changed := 0
	for _, task := range tasks {
		if task.Priority > api.PriorityNone {
			continue
		}
		choice, err := ctx.Prompter.Select(formatTaskLine(ctx, r, task, projects), []string{"p1", "p2", "p3", "p4", choiceSkip, choiceQuit})
		if err != nil {
			return changed, err
		}
		switch choice {
		case choiceQuit:
			return changed, nil
		case choiceSkip:
			continue
		}
		priority, err := api.ParsePriority(choice)
		if err != nil {
			return changed, err
		}
		if err := updateTask(ctx, task.ID, map[string]any{"priority": int(priority)}, "prioritized"); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

func listSchedule(ctx *Context, r apptasks.Ranker, tasks []api.Task) (int, error) {
	projects := projectNameMap(ctx)
	changed := 0
	for _, task := range r.FilterTasks(tasks, apptasks.FilterUnscheduled) {
		choice, err := ctx.Prompter.Select(formatTaskLine(ctx, r, task, projects), scheduleChoices)
		if err != nil {
			return changed, err
		}
		var body map[string]any
		switch choice {
		case choiceQuit:
			return changed, nil
		case choiceSkip:
			continue
		case choiceComplete:
			if err := completeOne(ctx, task.ID); err != nil {
				return changed, err
			}
			changed++
			continue
		case choiceNoDate:
			body, err = apptasks.BuildSchedulePayload("", true)
		case choiceCustom:
			var text string
			if text, err = ctx.Prompter.Input("Due date", "next friday 9am"); err != nil {
				return changed, err
			}
			if text == "" {
				continue
			}
			body, err = apptasks.BuildSchedulePayload(text, false)
		default:
			body, err = apptasks.BuildSchedulePayload(choice, false)
		}
		if err != nil {
			return changed, err
		}
		if err := updateTask(ctx, task.ID, body, "scheduled"); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

func listLabel(ctx *Context, r apptasks.Ranker, tasks []api.Task, offered []string) (int, error) {
	known, err := listAllLabels(ctx)
	if err != nil {
		return 0, err
	}
	names := applabels.Canonical(offered, known)
	if len(names) == 0 {
		for _, label := range applabels.Ordered(known) {
			names = append(names, label.Name)
		}
	}
	if len(names) == 0 {
		return 0, usageError("no labels to offer; pass --label")
	}
	options := append(append([]string(nil), names...), choiceSkip, choiceQuit)
	projects := projectNameMap(ctx)
	changed := 0
	for _, task := range tasks {
		choice, err := ctx.Prompter.Select(formatTaskLine(ctx, r, task, projects), options)
		if err != nil {
			return changed, err
		}
		switch choice {
		case choiceQuit:
			return changed, nil
		case choiceSkip:
			continue
		}
		merged := apptasks.MergeLabels(task.Labels, []string{choice})
		if err := updateTask(ctx, task.ID, map[string]any{"labels": merged}, "labelled"); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

func completeOne(ctx *Context, taskID string) error {
	if ctx.Global.DryRun {
		return writeDryRun(ctx, "task complete "+taskID, nil)
	}
	if err := ensureClient(ctx); err != nil {
		return err
	}
	if _, err := closeAndRecord(ctx, taskID); err != nil {
		return err
	}
	return writeSimpleResult(ctx, "completed", taskID)
}
