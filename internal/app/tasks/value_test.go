package tasks

import (
	"errors"
	"testing"
	"time"

	"github.com/agisilaos/tod/internal/api"
	"github.com/agisilaos/tod/internal/clock"
	"github.com/agisilaos/tod/internal/due"
)

var fixedNow = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

func testRanker() Ranker {
	return NewRanker(clock.Fixed{At: fixedNow}, DefaultWeights(), "UTC")
}

func dueTask(id, date string, recurring bool) api.Task {
	return api.Task{ID: id, Content: id, Priority: api.PriorityNone, Due: &due.Info{Date: date, IsRecurring: recurring}}
}

func TestNoDueDateValueIgnoresPriority(t *testing.T) {
	r := testRanker()
	for _, p := range []api.Priority{api.PriorityNone, api.PriorityLow, api.PriorityMedium, api.PriorityHigh} {
		got, err := r.DateValue(api.Task{Priority: p})
		if err != nil {
			t.Fatalf("DateValue: %v", err)
		}
		if got != r.Weights.NoDueDate {
			t.Fatalf("priority %d: expected %d, got %d", p, r.Weights.NoDueDate, got)
		}
	}
	if got := r.Value(api.Task{Priority: api.PriorityHigh}); got != 84 {
		t.Fatalf("expected 84, got %d", got)
	}
}

func TestDateValues(t *testing.T) {
	r := testRanker()
	cases := []struct {
		name string
		task api.Task
		want uint32
	}{
		{"today", dueTask("a", "2025-05-10", false), 150},
		{"today recurring", dueTask("b", "2025-05-10", true), 100},
		{"overdue", dueTask("c", "2025-05-09", false), 200},
		{"overdue recurring", dueTask("d", "2025-04-01", true), 150},
		{"future", dueTask("e", "2025-05-11", false), 50},
		{"now window start", dueTask("f", "2025-05-10T11:45:00", false), 250},
		{"now window end", dueTask("g", "2025-05-10T12:15:00Z", false), 250},
		{"outside window", dueTask("h", "2025-05-10T12:16:00", false), 50},
		{"timed recurring now", dueTask("i", "2025-05-10T12:00:00.000000Z", true), 200},
		{"timed earlier today", dueTask("j", "2025-05-10T08:00:00", false), 50},
	}
	for _, tc := range cases {
		got, err := r.DateValue(tc.task)
		if err != nil {
			t.Fatalf("%s: DateValue: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestPriorityValues(t *testing.T) {
	w := DefaultWeights()
	cases := map[api.Priority]uint32{api.PriorityNone: 2, api.PriorityLow: 1, api.PriorityMedium: 3, api.PriorityHigh: 4}
	for p, want := range cases {
		if got := PriorityValue(p, w); got != want {
			t.Fatalf("priority %d: expected %d, got %d", p, want, got)
		}
	}
}

func TestValueIsDateComponentPlusPriority(t *testing.T) {
	resolved, err := due.Resolve(&due.Info{Date: "2025-05-10"}, "UTC")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := Value(resolved, api.PriorityHigh, fixedNow, DefaultWeights()); got != 154 {
		t.Fatalf("expected 154, got %d", got)
	}
}

func TestValueFallsBackOnResolutionError(t *testing.T) {
	r := testRanker()
	var warned []error
	r.Warn = func(task api.Task, err error) { warned = append(warned, err) }
	task := dueTask("bad", "2025-05-10T12", false)
	task.Priority = api.PriorityMedium
	if got := r.Value(task); got != r.Weights.NotRecurring+r.Weights.PriorityMedium {
		t.Fatalf("expected fallback value, got %d", got)
	}
	if len(warned) != 1 {
		t.Fatalf("expected one warning, got %d", len(warned))
	}
	var parseErr *due.ParseError
	if !errors.As(warned[0], &parseErr) {
		t.Fatalf("expected ParseError, got %v", warned[0])
	}
}

func TestValueWithUnknownZoneWarns(t *testing.T) {
	r := testRanker()
	warnings := 0
	r.Warn = func(api.Task, error) { warnings++ }
	task := api.Task{Priority: api.PriorityNone, Due: &due.Info{Date: "2025-05-10", Timezone: "Nowhere/Special"}}
	if got := r.Value(task); got != 52 {
		t.Fatalf("expected 52, got %d", got)
	}
	if warnings != 1 {
		t.Fatalf("expected a warning")
	}
}

func TestDeadlineValue(t *testing.T) {
	r := testRanker()
	cases := map[string]uint32{
		"2025-05-10": 150,
		"2025-05-11": 120,
		"2025-05-09": 180,
		"2025-05-15": 0,
		"2025-05-16": 0,
	}
	for date, want := range cases {
		task := api.Task{Deadline: &due.Deadline{Date: date}}
		if got := r.DeadlineValue(task, time.UTC); got != want {
			t.Fatalf("deadline %s: expected %d, got %d", date, want, got)
		}
	}
}

func TestMalformedDeadlineWarnsAndScoresZero(t *testing.T) {
	r := testRanker()
	warnings := 0
	r.Warn = func(api.Task, error) { warnings++ }
	task := api.Task{Priority: api.PriorityNone, Deadline: &due.Deadline{Date: "next week"}}
	if got := r.Value(task); got != 82 {
		t.Fatalf("expected 82, got %d", got)
	}
	if warnings != 1 {
		t.Fatalf("expected a warning, got %d", warnings)
	}
}

func TestValueUsesTaskZoneForToday(t *testing.T) {
	r := NewRanker(clock.Fixed{At: time.Date(2025, 5, 10, 3, 30, 0, 0, time.UTC)}, DefaultWeights(), "America/Vancouver")
	got, err := r.DateValue(dueTask("a", "2025-05-09", false))
	if err != nil {
		t.Fatalf("DateValue: %v", err)
	}
	if got != 150 {
		t.Fatalf("expected today in Vancouver, got %d", got)
	}
}
