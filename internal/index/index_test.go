package index

import (
	"os"
	"testing"

	"github.com/starford/raido/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "raido-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleLibrary() *models.Library {
	return &models.Library{
		Folders: []models.Folder{
			{ID: "f_work", Name: "Work"},
			{ID: "f_proj", Name: "Projects", ParentID: "f_work"},
		},
		Bookmarks: []models.Bookmark{
			{ID: "b1", Title: "Kubernetes docs", URL: "https://kubernetes.io/docs/", FolderID: "f_proj", Tags: []string{"infra"}},
			{ID: "b2", Title: "Recipes", URL: "https://cooking.test/", Tags: []string{}},
		},
		Version: "v1",
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	for _, table := range []string{"bookmarks", "folders", "meta"} {
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestReplaceAndVersion(t *testing.T) {
	db := testDB(t)
	v, err := db.Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != "" {
		t.Errorf("fresh version = %q, want empty", v)
	}

	if err := db.Replace(sampleLibrary()); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	v, _ = db.Version()
	if v != "v1" {
		t.Errorf("version = %q, want %q", v, "v1")
	}
	nb, nf, err := db.Counts()
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if nb != 2 || nf != 2 {
		t.Errorf("counts = %d/%d, want 2/2", nb, nf)
	}
}

func TestReplaceDropsRemovedRows(t *testing.T) {
	db := testDB(t)
	_ = db.Replace(sampleLibrary())

	smaller := sampleLibrary()
	smaller.Bookmarks = smaller.Bookmarks[:1]
	smaller.Version = "v2"
	if err := db.Replace(smaller); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	nb, _, _ := db.Counts()
	if nb != 1 {
		t.Errorf("bookmarks = %d, want 1", nb)
	}
	results, _ := db.Search("Recipes", 10)
	if len(results) != 0 {
		t.Errorf("removed bookmark still searchable: %+v", results)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.Replace(sampleLibrary())

	results, err := db.Search("Kubernetes", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "b1" {
		t.Fatalf("search results = %+v, want 1 hit for b1", results)
	}
	if results[0].FolderPath != "Work / Projects" {
		t.Errorf("folder path = %q, want %q", results[0].FolderPath, "Work / Projects")
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	db := testDB(t)
	_ = db.Replace(sampleLibrary())
	results, err := db.Search("   ", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty query returned %d results", len(results))
	}
}

func TestFolderPaths_StoredCycleTerminates(t *testing.T) {
	paths := folderPaths([]models.Folder{
		{ID: "a", Name: "A", ParentID: "b"},
		{ID: "b", Name: "B", ParentID: "a"},
	})
	if paths["a"] != "B / A" {
		t.Errorf("path(a) = %q, want %q", paths["a"], "B / A")
	}
}
