package cli

import (
	"strings"
	"testing"

	"github.com/agisilaos/tod/internal/api"
	apptasks "github.com/agisilaos/tod/internal/app/tasks"
	"github.com/agisilaos/tod/internal/config"
	"github.com/agisilaos/tod/internal/due"
	"github.com/agisilaos/tod/internal/output"
)

func sampleTasks() []api.Task {
	return []api.Task{
		{ID: "t1", Content: "Someday", Priority: api.PriorityNone},
		{ID: "t2", Content: "Water plants", Priority: api.PriorityHigh, Due: &due.Info{Date: "2025-05-10"}},
		{ID: "t3", Content: "Pay rent", Priority: api.PriorityNone, Due: &due.Info{Date: "2025-05-01"}},
		{ID: "t4", Content: "Dentist", Priority: api.PriorityMedium, Due: &due.Info{Date: "2025-05-20"}},
	}
}

func TestTaskListOrdersByValue(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()})

	if err := taskList(env.ctx, apptasks.ListInput{}, false); err != nil {
		t.Fatalf("taskList: %v", err)
	}
	got := decodeData[[]apptasks.Ranked](t, env.stdout.Bytes())
	var ids []string
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	if strings.Join(ids, ",") != "t3,t2,t1,t4" {
		t.Fatalf("unexpected order: %v", ids)
	}
	if got[0].Value != 202 {
		t.Fatalf("expected overdue value 202, got %d", got[0].Value)
	}
}

func TestTaskListUnscheduledIncludesOverdue(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()})

	if err := taskList(env.ctx, apptasks.ListInput{Unscheduled: true}, false); err != nil {
		t.Fatalf("taskList: %v", err)
	}
	got := decodeData[[]apptasks.Ranked](t, env.stdout.Bytes())
	if len(got) != 2 || got[0].ID != "t3" || got[1].ID != "t1" {
		t.Fatalf("expected overdue and undated tasks, got %#v", got)
	}
}

func TestTaskListScheduledSortsByTime(t *testing.T) {
	tasks := append(sampleTasks(),
		api.Task{ID: "t5", Content: "Standup", Priority: api.PriorityNone, Due: &due.Info{Date: "2025-05-10T15:00:00Z"}},
		api.Task{ID: "t6", Content: "Gym", Priority: api.PriorityHigh, Due: &due.Info{Date: "2025-05-10T09:00:00Z"}},
	)
	env := newTestEnv(t, &fakeTodoist{tasks: tasks})

	if err := taskList(env.ctx, apptasks.ListInput{Scheduled: true}, false); err != nil {
		t.Fatalf("taskList: %v", err)
	}
	got := decodeData[[]apptasks.Ranked](t, env.stdout.Bytes())
	var ids []string
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	if strings.Join(ids, ",") != "t6,t5" {
		t.Fatalf("expected today's timed tasks by time, got %v", ids)
	}
}

func TestTaskListRejectsConflictingFilters(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{})
	err := taskList(env.ctx, apptasks.ListInput{Overdue: true, Recurring: true}, false)
	assertExitCode(t, err, exitUsage)
}

func TestTaskListPlainRows(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()[:2]})
	env.ctx.Mode = output.ModePlain

	if err := taskList(env.ctx, apptasks.ListInput{}, false); err != nil {
		t.Fatalf("taskList: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(env.stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %q", env.stdout.String())
	}
	if lines[0] != "t2\tp1\ttoday\t154\tWater plants" {
		t.Fatalf("unexpected first row: %q", lines[0])
	}
}

func TestTaskNextRemembersTaskForComplete(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()})

	if err := taskNext(env.ctx, apptasks.ListInput{}); err != nil {
		t.Fatalf("taskNext: %v", err)
	}
	detail := decodeData[taskDetail](t, env.stdout.Bytes())
	if detail.Task.ID != "t3" {
		t.Fatalf("expected next task t3, got %q", detail.Task.ID)
	}
	cfg, err := config.Load(config.LoadOptions{UserPath: env.ctx.ConfigPath})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.NextTaskID != "t3" {
		t.Fatalf("expected remembered next task, got %q", cfg.NextTaskID)
	}

	env.stdout.Reset()
	env.ctx.Config.NextTaskID = cfg.NextTaskID
	if err := taskComplete(env.ctx, "", nil, ""); err != nil {
		t.Fatalf("taskComplete: %v", err)
	}
	if closed := env.api.closedIDs(); len(closed) != 1 || closed[0] != "t3" {
		t.Fatalf("unexpected closed tasks: %v", closed)
	}
	result := decodeData[completionResult](t, env.stdout.Bytes())
	if result.Mode != "next" || result.CompletedToday != 1 {
		t.Fatalf("unexpected completion result: %#v", result)
	}
	cfg, err = config.Load(config.LoadOptions{UserPath: env.ctx.ConfigPath})
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if cfg.NextTaskID != "" {
		t.Fatalf("expected next task to be forgotten, got %q", cfg.NextTaskID)
	}
	if cfg.Completed.Date != "2025-05-10" || cfg.Completed.Count != 1 {
		t.Fatalf("unexpected completion counter: %#v", cfg.Completed)
	}
}

func TestTaskNextSkipsFutureTasks(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()[3:]})

	if err := taskNext(env.ctx, apptasks.ListInput{}); err != nil {
		t.Fatalf("taskNext: %v", err)
	}
	if got := decodeData[*taskDetail](t, env.stdout.Bytes()); got != nil {
		t.Fatalf("expected no next task, got %#v", got)
	}
}

func TestTaskCompleteWithoutTargetIsUsageError(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{})
	err := taskComplete(env.ctx, "", nil, "")
	assertExitCode(t, err, exitUsage)
}

func TestTaskCompleteFilterRequiresForce(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()})
	err := taskComplete(env.ctx, "", nil, "today")
	assertExitCode(t, err, exitUsage)
	if len(env.api.closedIDs()) != 0 {
		t.Fatalf("expected no tasks closed")
	}
}

func TestTaskCompleteCountsAcrossCalls(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()})

	for _, id := range []string{"t1", "t2"} {
		env.stdout.Reset()
		if err := taskComplete(env.ctx, id, nil, ""); err != nil {
			t.Fatalf("taskComplete %s: %v", id, err)
		}
	}
	result := decodeData[completionResult](t, env.stdout.Bytes())
	if result.CompletedToday != 2 {
		t.Fatalf("expected 2 completed today, got %d", result.CompletedToday)
	}
}

func TestTaskCompleteDryRunDoesNotClose(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()})
	env.ctx.Global.DryRun = true

	if err := taskComplete(env.ctx, "t1", nil, ""); err != nil {
		t.Fatalf("taskComplete: %v", err)
	}
	if len(env.api.closedIDs()) != 0 {
		t.Fatalf("dry run closed tasks: %v", env.api.closedIDs())
	}
	if !strings.Contains(env.stdout.String(), `"dry_run": true`) {
		t.Fatalf("expected dry run output, got %q", env.stdout.String())
	}
}

func TestTaskScheduleSendsDueString(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()})

	if err := taskSchedule(env.ctx, "t1", nil, "every monday", false); err != nil {
		t.Fatalf("taskSchedule: %v", err)
	}
	if got := env.api.update("t1")["due_string"]; got != "every monday" {
		t.Fatalf("unexpected due_string: %v", got)
	}
}

func TestTaskScheduleClearRemovesDate(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()})

	if err := taskSchedule(env.ctx, "t2", nil, "", true); err != nil {
		t.Fatalf("taskSchedule: %v", err)
	}
	if got := env.api.update("t2")["due_string"]; got != "no date" {
		t.Fatalf("unexpected due_string: %v", got)
	}
}

func TestTaskDeadlineNormalizesRelativeDate(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()})

	if err := taskDeadline(env.ctx, "t1", nil, "tomorrow", false); err != nil {
		t.Fatalf("taskDeadline: %v", err)
	}
	if got := env.api.update("t1")["deadline_date"]; got != "2025-05-11" {
		t.Fatalf("unexpected deadline_date: %v", got)
	}
}

func TestTaskLabelMergesCanonicalNames(t *testing.T) {
	tasks := sampleTasks()
	tasks[0].Labels = []string{"home"}
	env := newTestEnv(t, &fakeTodoist{
		tasks:  tasks,
		labels: []api.Label{{ID: "l1", Name: "Errands"}, {ID: "l2", Name: "home"}},
	})

	if err := taskLabel(env.ctx, "t1", nil, []string{"@errands", "HOME"}); err != nil {
		t.Fatalf("taskLabel: %v", err)
	}
	labels, ok := env.api.update("t1")["labels"].([]any)
	if !ok || len(labels) != 2 || labels[0] != "home" || labels[1] != "Errands" {
		t.Fatalf("unexpected labels: %#v", env.api.update("t1")["labels"])
	}
}

func TestTaskPriorityPromptsWhenMissing(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()})
	env.ctx.Prompter = &fakePrompter{selects: []string{"p2"}}

	if err := taskPriority(env.ctx, "t1", nil, 0); err != nil {
		t.Fatalf("taskPriority: %v", err)
	}
	if got := env.api.update("t1")["priority"]; got != float64(api.PriorityMedium) {
		t.Fatalf("unexpected priority: %v", got)
	}
}

func TestTaskPriorityNoInputIsUsageError(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()})
	env.ctx.Global.NoInput = true

	err := taskPriority(env.ctx, "t1", nil, 0)
	assertExitCode(t, err, exitUsage)
}

func TestTaskDeleteAbortsWithoutConfirmation(t *testing.T) {
	env := newTestEnv(t, &fakeTodoist{tasks: sampleTasks()})
	env.ctx.Prompter = &fakePrompter{confirm: false}

	err := taskDelete(env.ctx, "t1", nil)
	assertExitCode(t, err, exitError)
	for _, req := range env.api.requests {
		if strings.HasPrefix(req, "DELETE") {
			t.Fatalf("unexpected delete request: %v", env.api.requests)
		}
	}
}

func TestTaskViewShowsCommentsNewestFirst(t *testing.T) {
	tasks := sampleTasks()
	tasks[1].NoteCount = 2
	env := newTestEnv(t, &fakeTodoist{
		tasks: tasks,
		comments: map[string][]api.Comment{
			"t2": {
				{ID: "c1", Content: "first", PostedAt: "2025-05-01T09:00:00Z"},
				{ID: "c2", Content: "second", PostedAt: "2025-05-02T09:00:00Z"},
			},
		},
	})
	env.ctx.Mode = output.ModeHuman

	if err := taskView(env.ctx, "t2", nil, true); err != nil {
		t.Fatalf("taskView: %v", err)
	}
	out := env.stdout.String()
	for _, want := range []string{"Water plants", "priority: p1", "due: today", "value: 154", "★ Comments ★"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "second") > strings.Index(out, "first") {
		t.Fatalf("expected newest comment first:\n%s", out)
	}
}

func TestTaskViewReportsBadDueDate(t *testing.T) {
	tasks := []api.Task{{ID: "t9", Content: "Broken", Priority: api.PriorityNone, Due: &due.Info{Date: "not-a-date"}}}
	env := newTestEnv(t, &fakeTodoist{tasks: tasks})
	env.ctx.Logger = newLogger(env.stderr, GlobalOptions{})

	if err := taskView(env.ctx, "t9", nil, false); err != nil {
		t.Fatalf("taskView: %v", err)
	}
	detail := decodeData[taskDetail](t, env.stdout.Bytes())
	if !strings.Contains(detail.DueError, "malformed") {
		t.Fatalf("expected due error in %#v", detail)
	}
	if detail.Value != 52 {
		t.Fatalf("expected fallback value 52, got %d", detail.Value)
	}
	if got := strings.Count(env.stderr.String(), "could not read due date"); got != 1 {
		t.Fatalf("expected one warning, got %d:\n%s", got, env.stderr.String())
	}
}

func TestTaskListWarnsOncePerUnreadableTask(t *testing.T) {
	tasks := append(sampleTasks(), api.Task{ID: "bad", Content: "Broken", Priority: api.PriorityNone, Due: &due.Info{Date: "2025-05-10T12"}})
	for _, in := range []apptasks.ListInput{{}, {Sort: "datetime"}, {Sort: "todoist"}} {
		env := newTestEnv(t, &fakeTodoist{tasks: tasks})
		env.ctx.Logger = newLogger(env.stderr, GlobalOptions{})

		if err := taskList(env.ctx, in, false); err != nil {
			t.Fatalf("taskList(%+v): %v", in, err)
		}
		if got := strings.Count(env.stderr.String(), "could not read due date"); got != 1 {
			t.Fatalf("%+v: expected one warning, got %d:\n%s", in, got, env.stderr.String())
		}
	}
}

func TestTaskNextWarnsOncePerUnreadableTask(t *testing.T) {
	tasks := []api.Task{{ID: "bad", Content: "Broken", Priority: api.PriorityHigh, Due: &due.Info{Date: "2025-05-10T12"}}}
	env := newTestEnv(t, &fakeTodoist{tasks: tasks})
	env.ctx.Logger = newLogger(env.stderr, GlobalOptions{})

	if err := taskNext(env.ctx, apptasks.ListInput{}); err != nil {
		t.Fatalf("taskNext: %v", err)
	}
	if got := strings.Count(env.stderr.String(), "could not read due date"); got != 1 {
		t.Fatalf("expected one warning, got %d:\n%s", got, env.stderr.String())
	}
}
