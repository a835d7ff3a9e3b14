package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/agisilaos/tod/internal/api"
)

type fakeResolver struct {
	task api.Task
	err  error
}

func (f fakeResolver) ResolveTaskRef(_ context.Context, _ string) (api.Task, error) {
	if f.err != nil {
		return api.Task{}, f.err
	}
	return f.task, nil
}

type fakeLister struct {
	tasks []api.Task
	err   error
}

func (f fakeLister) ListByFilter(_ context.Context, _ string) ([]api.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tasks, nil
}

func TestResolveCompletionTargetsSingleFromID(t *testing.T) {
	svc := Service{}
	out, err := svc.ResolveCompletionTargets(context.Background(), ResolveCompletionInput{ID: "id:abc"})
	if err != nil {
		t.Fatalf("ResolveCompletionTargets: %v", err)
	}
	if out.Mode != "single" || out.IDs[0] != "abc" {
		t.Fatalf("unexpected output: %#v", out)
	}
}

func TestResolveCompletionTargetsSingleFromRef(t *testing.T) {
	svc := Service{Resolver: fakeResolver{task: api.Task{ID: "t1"}}}
	out, err := svc.ResolveCompletionTargets(context.Background(), ResolveCompletionInput{Ref: "call mom"})
	if err != nil {
		t.Fatalf("ResolveCompletionTargets: %v", err)
	}
	if out.Mode != "single" || out.IDs[0] != "t1" {
		t.Fatalf("unexpected output: %#v", out)
	}
}

func TestResolveCompletionTargetsFallsBackToNext(t *testing.T) {
	svc := Service{}
	out, err := svc.ResolveCompletionTargets(context.Background(), ResolveCompletionInput{NextID: "n1"})
	if err != nil {
		t.Fatalf("ResolveCompletionTargets: %v", err)
	}
	if out.Mode != "next" || out.IDs[0] != "n1" {
		t.Fatalf("unexpected output: %#v", out)
	}
	if _, err := svc.ResolveCompletionTargets(context.Background(), ResolveCompletionInput{}); err == nil {
		t.Fatalf("expected error without remembered task")
	}
}

func TestResolveCompletionTargetsBulk(t *testing.T) {
	svc := Service{Lister: fakeLister{tasks: []api.Task{{ID: "a"}, {ID: "b"}}}}
	out, err := svc.ResolveCompletionTargets(context.Background(), ResolveCompletionInput{Filter: "today", Force: true})
	if err != nil {
		t.Fatalf("ResolveCompletionTargets: %v", err)
	}
	if out.Mode != "bulk" || len(out.IDs) != 2 {
		t.Fatalf("unexpected output: %#v", out)
	}
}

func TestResolveCompletionTargetsBulkRequiresForce(t *testing.T) {
	svc := Service{Lister: fakeLister{tasks: []api.Task{{ID: "a"}}}}
	_, err := svc.ResolveCompletionTargets(context.Background(), ResolveCompletionInput{Filter: "today"})
	if err == nil || err.Error() != "bulk complete with --filter requires --force" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveCompletionTargetsBulkRejectsMixedInputs(t *testing.T) {
	svc := Service{}
	_, err := svc.ResolveCompletionTargets(context.Background(), ResolveCompletionInput{Filter: "today", ID: "abc"})
	if err == nil || err.Error() != "--filter cannot be combined with --id or a task reference" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveCompletionTargetsPropagatesResolverError(t *testing.T) {
	svc := Service{Resolver: fakeResolver{err: errors.New("boom")}}
	_, err := svc.ResolveCompletionTargets(context.Background(), ResolveCompletionInput{Ref: "call mom"})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveTaskTargetFromURL(t *testing.T) {
	svc := Service{}
	id, err := svc.ResolveTaskTarget(context.Background(), ResolveTaskTargetInput{Ref: "https://app.todoist.com/app/task/pay-rent-6X7rM8997g3RQmvh"})
	if err != nil {
		t.Fatalf("ResolveTaskTarget: %v", err)
	}
	if id != "6X7rM8997g3RQmvh" {
		t.Fatalf("unexpected id: %q", id)
	}
}

func TestResolveTaskTargetFromRef(t *testing.T) {
	svc := Service{Resolver: fakeResolver{task: api.Task{ID: "t99"}}}
	id, err := svc.ResolveTaskTarget(context.Background(), ResolveTaskTargetInput{Ref: "Pay rent"})
	if err != nil {
		t.Fatalf("ResolveTaskTarget: %v", err)
	}
	if id != "t99" {
		t.Fatalf("unexpected id: %q", id)
	}
}

func TestResolveTaskTargetRequiresValue(t *testing.T) {
	svc := Service{}
	if _, err := svc.ResolveTaskTarget(context.Background(), ResolveTaskTargetInput{}); err == nil {
		t.Fatalf("expected error")
	}
}
