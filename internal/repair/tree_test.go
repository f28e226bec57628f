package repair

import (
	"testing"

	"github.com/starford/raido/internal/models"
)

func sampleTree() []models.Folder {
	// root
	// ├── a
	// │   └── b
	// │       └── c
	// └── d
	return []models.Folder{
		{ID: "a"},
		{ID: "b", ParentID: "a"},
		{ID: "c", ParentID: "b"},
		{ID: "d"},
	}
}

func TestWouldCycle(t *testing.T) {
	folders := sampleTree()
	tests := []struct {
		name     string
		id       string
		parentID string
		want     bool
	}{
		{"self", "a", "a", true},
		{"direct child", "a", "b", true},
		{"deep descendant", "a", "c", true},
		{"sibling branch", "a", "d", false},
		{"move down is fine", "d", "c", false},
		{"to root", "c", "", false},
		{"unknown parent", "a", "ghost", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WouldCycle(folders, tt.id, tt.parentID); got != tt.want {
				t.Errorf("WouldCycle(%s, %s) = %v, want %v", tt.id, tt.parentID, got, tt.want)
			}
		})
	}
}

func TestWouldCycle_TwoNodeSwap(t *testing.T) {
	folders := []models.Folder{{ID: "A"}, {ID: "B", ParentID: "A"}}
	if !WouldCycle(folders, "A", "B") {
		t.Error("A.parent = B while B.parent = A must be rejected")
	}
}

func TestWouldCycle_TerminatesOnStoredLoop(t *testing.T) {
	folders := []models.Folder{
		{ID: "x", ParentID: "y"},
		{ID: "y", ParentID: "x"},
		{ID: "z"},
	}
	if WouldCycle(folders, "z", "x") {
		t.Error("a loop that does not include z should not be reported for z")
	}
}

func TestSubtree(t *testing.T) {
	got := Subtree(sampleTree(), "a")
	for _, id := range []string{"a", "b", "c"} {
		if _, ok := got[id]; !ok {
			t.Errorf("subtree missing %s", id)
		}
	}
	if _, ok := got["d"]; ok {
		t.Error("subtree should not contain d")
	}
}
