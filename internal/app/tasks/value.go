package tasks

import (
	"time"

	"github.com/agisilaos/tod/internal/api"
	"github.com/agisilaos/tod/internal/clock"
	"github.com/agisilaos/tod/internal/due"
)

// nowWindow is how close a timed task must be to count as due now (inclusive).
const nowWindow = 15 * time.Minute

type Weights struct {
	NoDueDate      uint32 `json:"no_due_date" yaml:"no_due_date" mapstructure:"no_due_date"`
	Today          uint32 `json:"today" yaml:"today" mapstructure:"today"`
	Overdue        uint32 `json:"overdue" yaml:"overdue" mapstructure:"overdue"`
	Now            uint32 `json:"now" yaml:"now" mapstructure:"now"`
	NotRecurring   uint32 `json:"not_recurring" yaml:"not_recurring" mapstructure:"not_recurring"`
	PriorityNone   uint32 `json:"priority_none" yaml:"priority_none" mapstructure:"priority_none"`
	PriorityLow    uint32 `json:"priority_low" yaml:"priority_low" mapstructure:"priority_low"`
	PriorityMedium uint32 `json:"priority_medium" yaml:"priority_medium" mapstructure:"priority_medium"`
	PriorityHigh   uint32 `json:"priority_high" yaml:"priority_high" mapstructure:"priority_high"`
	DeadlineDays   uint32 `json:"deadline_days" yaml:"deadline_days" mapstructure:"deadline_days"`
	DeadlineValue  uint32 `json:"deadline_value" yaml:"deadline_value" mapstructure:"deadline_value"`
}

func DefaultWeights() Weights {
	return Weights{
		NoDueDate:      80,
		Today:          100,
		Overdue:        150,
		Now:            200,
		NotRecurring:   50,
		PriorityNone:   2,
		PriorityLow:    1,
		PriorityMedium: 3,
		PriorityHigh:   4,
		DeadlineDays:   5,
		DeadlineValue:  30,
	}
}

func Value(resolved due.Resolved, priority api.Priority, now time.Time, w Weights) uint32 {
	return DateValue(resolved, now, w) + PriorityValue(priority, w)
}

func DateValue(resolved due.Resolved, now time.Time, w Weights) uint32 {
	var value uint32
	switch resolved.Kind {
	case due.KindNone:
		return w.NoDueDate
	case due.KindDate:
		today := due.Midnight(now, resolved.Location)
		switch {
		case due.SameDate(resolved.Date, today):
			value += w.Today
		case resolved.Date.Before(today):
			value += w.Overdue
		}
	case due.KindDateTime:
		diff := resolved.Instant.Sub(now)
		if diff < 0 {
			diff = -diff
		}
		if diff <= nowWindow {
			value += w.Now
		}
	}
	if !resolved.Recurring {
		value += w.NotRecurring
	}
	return value
}

func PriorityValue(priority api.Priority, w Weights) uint32 {
	switch priority {
	case api.PriorityLow:
		return w.PriorityLow
	case api.PriorityMedium:
		return w.PriorityMedium
	case api.PriorityHigh:
		return w.PriorityHigh
	default:
		return w.PriorityNone
	}
}

// DeadlineValue grows by DeadlineValue for every day the deadline is closer than
// DeadlineDays, and keeps growing once it has passed.
func DeadlineValue(deadline, today time.Time, w Weights) uint32 {
	remaining := int(w.DeadlineDays) - due.DaysBetween(today, deadline)
	if remaining <= 0 {
		return 0
	}
	return uint32(remaining) * w.DeadlineValue
}

type Ranker struct {
	Clock    clock.Provider
	Weights  Weights
	Timezone string
	Warn     func(task api.Task, err error)
}

func NewRanker(c clock.Provider, w Weights, timezone string) Ranker {
	return Ranker{Clock: c, Weights: w, Timezone: timezone}
}

func (r Ranker) Resolve(task api.Task) (due.Resolved, error) {
	return due.Resolve(task.Due, r.Timezone)
}

func (r Ranker) Value(task api.Task) uint32 {
	resolved, err := r.Resolve(task)
	loc := r.location(resolved)
	value := r.PriorityValue(task) + r.DeadlineValue(task, loc)
	if err != nil {
		r.warn(task, err)
		return value + r.Weights.NotRecurring
	}
	return value + DateValue(resolved, r.clock().Now(loc), r.Weights)
}

func (r Ranker) DateValue(task api.Task) (uint32, error) {
	resolved, err := r.Resolve(task)
	if err != nil {
		return r.Weights.NotRecurring, err
	}
	return DateValue(resolved, r.clock().Now(r.location(resolved)), r.Weights), nil
}

func (r Ranker) PriorityValue(task api.Task) uint32 {
	return PriorityValue(task.Priority, r.Weights)
}

func (r Ranker) DeadlineValue(task api.Task, loc *time.Location) uint32 {
	if task.Deadline == nil {
		return 0
	}
	if loc == nil {
		loc = r.defaultLocation()
	}
	deadline, err := due.ParseDeadline(task.Deadline, loc)
	if err != nil {
		r.warn(task, err)
		return 0
	}
	return DeadlineValue(deadline, r.clock().Today(loc), r.Weights)
}

func (r Ranker) Today(loc *time.Location) time.Time {
	return r.clock().Today(loc)
}

func (r Ranker) location(resolved due.Resolved) *time.Location {
	if resolved.Location != nil {
		return resolved.Location
	}
	return r.defaultLocation()
}

func (r Ranker) defaultLocation() *time.Location {
	loc, err := due.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (r Ranker) clock() clock.Provider {
	if r.Clock == nil {
		return clock.System{}
	}
	return r.Clock
}

func (r Ranker) warn(task api.Task, err error) {
	if r.Warn != nil {
		r.Warn(task, err)
	}
}
