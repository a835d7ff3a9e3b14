package tasks

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agisilaos/tod/internal/api"
	"github.com/agisilaos/tod/internal/due"
)

type SortOrder string

const (
	SortValue    SortOrder = "value"
	SortDatetime SortOrder = "datetime"
	SortTodoist  SortOrder = "todoist"
)

func ParseSortOrder(value string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(value))) {
	case "", SortValue:
		return SortValue, nil
	case SortDatetime:
		return SortDatetime, nil
	case SortTodoist:
		return SortTodoist, nil
	}
	return "", fmt.Errorf("invalid sort %q; use value, datetime or todoist", value)
}

type Ranked struct {
	api.Task
	Value uint32 `json:"value"`
}

func (r Ranker) Score(task api.Task) Ranked {
	return Ranked{Task: task, Value: r.Value(task)}
}

func (r Ranker) Rank(tasks []api.Task, order SortOrder) []Ranked {
	items := make([]Ranked, len(tasks))
	for i, task := range tasks {
		items[i] = r.Score(task)
	}
	switch order {
	case SortDatetime:
		return r.byDatetime(items, false)
	case SortTodoist:
		return items
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Value > items[j].Value
	})
	return items
}

func Tasks(items []Ranked) []api.Task {
	out := make([]api.Task, len(items))
	for i, item := range items {
		out[i] = item.Task
	}
	return out
}

func (r Ranker) Sort(tasks []api.Task, order SortOrder) []api.Task {
	return Tasks(r.Rank(tasks, order))
}

func (r Ranker) SortByValue(tasks []api.Task) []api.Task {
	return r.Sort(tasks, SortValue)
}

// SortByDatetime orders by ascending due instant. Tasks without a resolvable
// time of day come first, in their input order.
func (r Ranker) SortByDatetime(tasks []api.Task) []api.Task {
	items := make([]Ranked, len(tasks))
	for i, task := range tasks {
		items[i] = Ranked{Task: task}
	}
	return Tasks(r.byDatetime(items, true))
}

func (r Ranker) byDatetime(items []Ranked, warn bool) []Ranked {
	type timed struct {
		item    Ranked
		instant time.Time
		ok      bool
	}
	keyed := make([]timed, len(items))
	for i, item := range items {
		keyed[i] = timed{item: item}
		resolved, err := r.Resolve(item.Task)
		if err != nil {
			if warn {
				r.warn(item.Task, err)
			}
			continue
		}
		if resolved.Kind == due.KindDateTime {
			keyed[i].instant = resolved.Instant
			keyed[i].ok = true
		}
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i], keyed[j]
		if !a.ok || !b.ok {
			return !a.ok && b.ok
		}
		return a.instant.Before(b.instant)
	})
	out := make([]Ranked, len(keyed))
	for i, k := range keyed {
		out[i] = k.item
	}
	return out
}
