package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/agisilaos/tod/internal/api"
	"github.com/agisilaos/tod/internal/due"
)

type FilterKind string

const (
	FilterNone        FilterKind = ""
	FilterUnscheduled FilterKind = "unscheduled"
	FilterOverdue     FilterKind = "overdue"
	FilterRecurring   FilterKind = "recurring"
	FilterScheduled   FilterKind = "scheduled"
)

func ParseFilterKind(value string) (FilterKind, error) {
	switch kind := FilterKind(strings.ToLower(strings.TrimSpace(value))); kind {
	case FilterNone, FilterUnscheduled, FilterOverdue, FilterRecurring, FilterScheduled:
		return kind, nil
	}
	return "", fmt.Errorf("invalid task filter %q", value)
}

func (r Ranker) IsToday(task api.Task) bool {
	resolved, err := r.Resolve(task)
	if err != nil || resolved.Kind == due.KindNone {
		return false
	}
	loc := r.location(resolved)
	return due.SameDate(r.dayOf(resolved, loc), r.clock().Today(loc))
}

func (r Ranker) IsOverdue(task api.Task) bool {
	resolved, err := r.Resolve(task)
	if err != nil || resolved.Kind == due.KindNone {
		return false
	}
	loc := r.location(resolved)
	return r.dayOf(resolved, loc).Before(r.clock().Today(loc))
}

func (r Ranker) dayOf(resolved due.Resolved, loc *time.Location) time.Time {
	if resolved.Kind == due.KindDate {
		return resolved.Date
	}
	return due.Midnight(resolved.Instant, loc)
}

func HasNoDate(task api.Task) bool {
	return task.Due == nil
}

func IsRecurring(task api.Task) bool {
	return task.Due != nil && task.Due.IsRecurring
}

func (r Ranker) Filter(task api.Task, kind FilterKind) bool {
	switch kind {
	case FilterUnscheduled:
		return HasNoDate(task) || r.IsOverdue(task)
	case FilterOverdue:
		return r.IsOverdue(task)
	case FilterRecurring:
		return IsRecurring(task)
	case FilterScheduled:
		resolved, err := r.Resolve(task)
		return err == nil && resolved.Kind == due.KindDateTime && r.IsToday(task)
	default:
		return true
	}
}

func (r Ranker) FilterTasks(tasks []api.Task, kind FilterKind) []api.Task {
	out := make([]api.Task, 0, len(tasks))
	for _, task := range tasks {
		if r.Filter(task, kind) {
			out = append(out, task)
		}
	}
	return out
}

func (r Ranker) FilterNotInFuture(tasks []api.Task) []api.Task {
	out := make([]api.Task, 0, len(tasks))
	for _, task := range tasks {
		if HasNoDate(task) || r.IsToday(task) || r.IsOverdue(task) {
			out = append(out, task)
		}
	}
	return out
}
