package models

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Fatalf("ids should be unique, both %q", a)
	}
	if !strings.HasPrefix(a, "id_") || len(a) != 35 {
		t.Errorf("id = %q, want id_ prefix and 32 hex chars", a)
	}
}

func TestCloneIsDeep(t *testing.T) {
	lib := &Library{
		Bookmarks: []Bookmark{{ID: "b1", Tags: []string{"x"}}},
		Folders:   []Folder{{ID: "f1", Name: "Work"}},
		Version:   "v1",
	}
	c := lib.Clone()
	c.Bookmarks[0].Tags[0] = "changed"
	c.Folders[0].Name = "Home"
	if lib.Bookmarks[0].Tags[0] != "x" {
		t.Error("clone shares tag slice with original")
	}
	if lib.Folders[0].Name != "Work" {
		t.Error("clone shares folder slice with original")
	}
	if c.Version != "v1" {
		t.Errorf("version = %q, want v1", c.Version)
	}
}

func TestSortForDisplay(t *testing.T) {
	lib := &Library{
		Folders: []Folder{
			{ID: "c", Name: "zeta"},
			{ID: "a", Name: "Alpha", SortOrder: 1},
			{ID: "b", Name: "beta"},
		},
		Bookmarks: []Bookmark{
			{ID: "old", AddDate: 10},
			{ID: "pinned", AddDate: 5, SortOrder: -1},
			{ID: "new", AddDate: 20},
		},
	}
	lib.SortForDisplay()

	var folders, bookmarks []string
	for _, f := range lib.Folders {
		folders = append(folders, f.ID)
	}
	for _, b := range lib.Bookmarks {
		bookmarks = append(bookmarks, b.ID)
	}
	if got := strings.Join(folders, ","); got != "b,c,a" {
		t.Errorf("folder order = %s, want b,c,a", got)
	}
	if got := strings.Join(bookmarks, ","); got != "pinned,new,old" {
		t.Errorf("bookmark order = %s, want pinned,new,old", got)
	}
}

func TestNormalize(t *testing.T) {
	lib := &Library{Bookmarks: []Bookmark{{ID: "b"}}}
	lib.Normalize()
	if lib.Folders == nil {
		t.Error("folders should be non-nil")
	}
	if lib.Bookmarks[0].Tags == nil {
		t.Error("tags should be non-nil")
	}
}
