package refs

import "testing"

func TestParseEntityURL(t *testing.T) {
	parsed, ok := ParseEntityURL("https://app.todoist.com/app/task/call-mom-6X7rM8997g3RQmvh")
	if !ok {
		t.Fatalf("expected url parse to succeed")
	}
	if parsed.Entity != "task" || parsed.ID != "6X7rM8997g3RQmvh" {
		t.Fatalf("unexpected parsed value: %#v", parsed)
	}
	if _, ok := ParseEntityURL("https://example.com/app/task/x-1"); ok {
		t.Fatalf("expected foreign host to be rejected")
	}
}

func TestNormalizeEntityRefFromURL(t *testing.T) {
	id, direct, err := NormalizeEntityRef("https://app.todoist.com/app/project/personal-2203306141", "project")
	if err != nil {
		t.Fatalf("NormalizeEntityRef: %v", err)
	}
	if !direct || id != "2203306141" {
		t.Fatalf("unexpected normalize result: id=%q direct=%v", id, direct)
	}
}

func TestNormalizeEntityRefRejectsMismatchedURLType(t *testing.T) {
	_, _, err := NormalizeEntityRef("https://app.todoist.com/app/project/personal-2203306141", "task")
	if err == nil {
		t.Fatalf("expected mismatch error")
	}
}
