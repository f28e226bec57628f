package repair

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

func testRemapper() Remapper {
	n := 0
	return Remapper{
		NewID:  func() string { n++; return fmt.Sprintf("nf%d", n) },
		Now:    func() time.Time { return time.Unix(100, 0) },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRemap(t *testing.T) {
	lib := &models.Library{
		Folders: []models.Folder{{ID: "f_dev", Name: "Dev"}},
		Bookmarks: []models.Bookmark{
			{ID: "b1", Title: "Go", URL: "https://go.dev/"},
			{ID: "b2", Title: "Rust Book", URL: "https://old.example/rust"},
			{ID: "b3", Title: "Untouched", URL: "https://keep.test/", FolderID: "f_dev"},
		},
	}
	raw := []byte(`<DL>
		<DT><H3>dev</H3>
		<DL>
			<DT><A HREF="https://go.dev/">The Go site</A>
			<DT><H3>Books</H3>
			<DL><DT><A HREF="https://doc.rust-lang.org/book/">Rust Book</A></DL>
		</DL>
		<DT><A HREF="https://missing.test/">Missing</A>
	</DL>`)

	report, err := testRemapper().Remap(raw, lib)
	if err != nil {
		t.Fatalf("Remap: %v", err)
	}
	if report.CreatedFolders != 1 {
		t.Errorf("created folders = %d, want 1 (Books)", report.CreatedFolders)
	}
	if report.UpdatedBookmarks != 2 {
		t.Errorf("updated = %d, want 2", report.UpdatedBookmarks)
	}
	if report.NotFoundCount != 1 || report.NotFoundSample[0].URL != "https://missing.test/" {
		t.Errorf("not found = %+v", report.NotFoundSample)
	}
	if lib.Bookmarks[0].FolderID != "f_dev" {
		t.Errorf("Go folder = %q, want f_dev", lib.Bookmarks[0].FolderID)
	}
	if lib.Bookmarks[1].FolderID != "nf1" {
		t.Errorf("Rust Book folder = %q, want nf1 (matched by title)", lib.Bookmarks[1].FolderID)
	}
	if len(lib.Folders) != 2 || lib.Folders[1].ParentID != "f_dev" {
		t.Errorf("folders = %+v", lib.Folders)
	}
}

func TestRemap_NoList(t *testing.T) {
	lib := &models.Library{}
	_, err := testRemapper().Remap([]byte(`<p>nothing here</p>`), lib)
	if !errors.Is(err, apperr.ErrUnparseableImport) {
		t.Errorf("err = %v, want ErrUnparseableImport", err)
	}
}

func TestOrphans(t *testing.T) {
	lib := &models.Library{
		Folders: []models.Folder{{ID: "f1"}},
		Bookmarks: []models.Bookmark{
			{ID: "ok", FolderID: "f1"},
			{ID: "unc", FolderID: ""},
			{ID: "dangling", FolderID: "gone"},
		},
	}
	r := Orphans(lib, 1)
	if r.TotalBookmarks != 3 || r.FoldersCount != 1 {
		t.Errorf("totals = %d/%d", r.TotalBookmarks, r.FoldersCount)
	}
	if r.UncategorizedCount != 2 || r.DanglingCount != 1 {
		t.Errorf("uncategorized = %d, dangling = %d, want 2 and 1", r.UncategorizedCount, r.DanglingCount)
	}
	if len(r.Sample) != 1 || r.Sample[0].ID != "unc" {
		t.Errorf("sample = %+v, want only unc", r.Sample)
	}
}
