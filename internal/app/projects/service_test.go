package projects

import (
	"testing"

	"github.com/agisilaos/tod/internal/api"
)

func TestBuildAddPayload(t *testing.T) {
	body, err := BuildAddPayload(AddInput{Name: " Home ", Color: "berry_red", Favorite: true})
	if err != nil {
		t.Fatalf("BuildAddPayload: %v", err)
	}
	if body["name"] != "Home" || body["color"] != "berry_red" || body["is_favorite"] != true {
		t.Fatalf("unexpected body: %#v", body)
	}
}

func TestBuildAddPayloadRequiresName(t *testing.T) {
	if _, err := BuildAddPayload(AddInput{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateDeleteRejectsInbox(t *testing.T) {
	if err := ValidateDelete(api.Project{ID: "1", IsInbox: true}); err == nil {
		t.Fatalf("expected error")
	}
	if err := ValidateDelete(api.Project{ID: "2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTreeNestsChildren(t *testing.T) {
	ordered, depths := Tree([]api.Project{
		{ID: "c", Name: "Child", ParentID: "a"},
		{ID: "a", Name: "Work"},
		{ID: "b", Name: "Home"},
		{ID: "d", Name: "Grandchild", ParentID: "c"},
	})
	want := []string{"a", "c", "d", "b"}
	wantDepth := []int{0, 1, 2, 0}
	for i := range want {
		if ordered[i].ID != want[i] || depths[i] != wantDepth[i] {
			t.Fatalf("unexpected tree at %d: %s/%d", i, ordered[i].ID, depths[i])
		}
	}
}
