package tasks

import (
	"errors"
	"strings"

	"github.com/agisilaos/tod/internal/api"
)

type ListInput struct {
	Project     string
	Filter      string
	Sort        string
	Scheduled   bool
	Overdue     bool
	Unscheduled bool
	Recurring   bool
	NotInFuture bool
}

type ListPlan struct {
	Mode        string
	Project     string
	Filter      string
	Kind        FilterKind
	NotInFuture bool
	Order       SortOrder
}

func PlanList(in ListInput) (ListPlan, error) {
	project := strings.TrimSpace(in.Project)
	filter := strings.TrimSpace(in.Filter)
	if project != "" && filter != "" {
		return ListPlan{}, errors.New("--project and --filter are mutually exclusive")
	}
	order, err := ParseSortOrder(in.Sort)
	if err != nil {
		return ListPlan{}, err
	}
	kind := FilterNone
	selected := 0
	for _, candidate := range []struct {
		on   bool
		kind FilterKind
	}{
		{in.Scheduled, FilterScheduled},
		{in.Overdue, FilterOverdue},
		{in.Unscheduled, FilterUnscheduled},
		{in.Recurring, FilterRecurring},
	} {
		if candidate.on {
			kind = candidate.kind
			selected++
		}
	}
	if selected > 1 {
		return ListPlan{}, errors.New("--scheduled, --overdue, --unscheduled and --recurring are mutually exclusive")
	}
	if kind == FilterScheduled && in.Sort == "" {
		order = SortDatetime
	}
	plan := ListPlan{Mode: "all", Kind: kind, NotInFuture: in.NotInFuture, Order: order}
	switch {
	case filter != "":
		plan.Mode = "filter"
		plan.Filter = filter
		if IsLikelyLiteralFilter(filter) {
			plan.Filter = ToSearchFilter(filter)
		}
	case project != "":
		plan.Mode = "project"
		plan.Project = project
	}
	return plan, nil
}

func (r Ranker) Apply(plan ListPlan, tasks []api.Task) []Ranked {
	if plan.Kind != FilterNone {
		tasks = r.FilterTasks(tasks, plan.Kind)
	}
	if plan.NotInFuture {
		tasks = r.FilterNotInFuture(tasks)
	}
	return r.Rank(tasks, plan.Order)
}

// Next returns the highest-value item that is not in the future. Ties go to
// the earlier item.
func (r Ranker) Next(items []Ranked) (Ranked, bool) {
	var best Ranked
	found := false
	for _, item := range items {
		if !HasNoDate(item.Task) && !r.IsToday(item.Task) && !r.IsOverdue(item.Task) {
			continue
		}
		if !found || item.Value > best.Value {
			best, found = item, true
		}
	}
	return best, found
}
