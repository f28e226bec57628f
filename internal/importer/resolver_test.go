package importer

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/starford/raido/internal/models"
)

func testResolver(folders []models.Folder) *Resolver {
	n := 0
	return NewResolver(folders,
		func() string { n++; return "new_" + string(rune('a'-1+n)) },
		func() time.Time { return fixedNow },
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Tools", "tools"},
		{"  Tools ", "tools"},
		{"ÄRGER", "ärger"},
		{"\tМузыка\n", "музыка"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolver_FirstMatchWins(t *testing.T) {
	r := testResolver([]models.Folder{
		{ID: "first", Name: "Dup"},
		{ID: "second", Name: "dup"},
	})
	if got := r.Resolve("DUP", ""); got != "first" {
		t.Errorf("Resolve = %q, want first", got)
	}
	if r.Created() != 0 {
		t.Errorf("created = %d, want 0", r.Created())
	}
}

func TestResolver_CreatesAndRemembers(t *testing.T) {
	r := testResolver(nil)
	a := r.Resolve(" Projects ", "")
	b := r.Resolve("projects", "")
	c := r.Resolve("Projects", a)
	if a != b {
		t.Errorf("same key resolved to %q and %q", a, b)
	}
	if a == c {
		t.Error("different parent must yield a different folder")
	}
	folders := r.Folders()
	if len(folders) != 2 || r.Created() != 2 {
		t.Fatalf("folders = %+v, created = %d", folders, r.Created())
	}
	if folders[0].Name != "Projects" {
		t.Errorf("stored name = %q, want trimmed original casing", folders[0].Name)
	}
	if folders[1].ParentID != a {
		t.Errorf("parent = %q, want %q", folders[1].ParentID, a)
	}
}

func TestURLSet_Admit(t *testing.T) {
	s := NewURLSet([]models.Bookmark{{URL: "http://old.test"}})
	if s.Admit("http://old.test") {
		t.Error("pre-existing url should not be admitted")
	}
	if !s.Admit("http://new.test") {
		t.Error("new url should be admitted once")
	}
	if s.Admit("http://new.test") {
		t.Error("repeat url should be rejected")
	}
}
