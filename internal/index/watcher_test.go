package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// watcherTestEnv sets up a store dir, storage, and DB for watcher tests.
func watcherTestEnv(t *testing.T) (string, *storage.FS, *DB) {
	t.Helper()
	storeDir := t.TempDir()
	store, err := storage.NewFS(storeDir)
	if err != nil {
		t.Fatal(err)
	}
	return storeDir, store, testDB(t)
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSync_SkipsUnchangedVersion(t *testing.T) {
	_, store, db := watcherTestEnv(t)
	logger := quietLogger()

	changed, err := Sync(db, store, logger)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !changed {
		t.Error("first sync should index")
	}
	changed, _ = Sync(db, store, logger)
	if changed {
		t.Error("second sync with unchanged store should be a no-op")
	}
}

func TestWatcher_ExternalEditReindexed(t *testing.T) {
	storeDir, store, db := watcherTestEnv(t)
	logger := quietLogger()
	if _, err := Sync(db, store, logger); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var calls [][]string
	go Watch(ctx, db, store, logger, func(_ string, files []string) {
		mu.Lock()
		calls = append(calls, files)
		mu.Unlock()
	})
	time.Sleep(100 * time.Millisecond)

	doc := `[{"id": "ext1", "title": "External", "url": "https://ext.test/", "folder_id": "", "tags": [], "add_date": 1, "sort_order": 0}]`
	_ = os.WriteFile(filepath.Join(storeDir, storage.BookmarksFile), []byte(doc), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		n, _, _ := db.Counts()
		return n == 1
	}, "external edit not indexed by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) > 0 && len(calls[0]) == 1 && calls[0][0] == storage.BookmarksFile
	}, "expected callback for bookmarks.json")

	lib, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(lib.Bookmarks) != 1 {
		t.Errorf("store cache not invalidated: %d bookmarks", len(lib.Bookmarks))
	}
}

func TestWatcher_OwnWritesStaySilent(t *testing.T) {
	_, store, db := watcherTestEnv(t)
	logger := quietLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	calls := 0
	go Watch(ctx, db, store, logger, func(string, []string) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	time.Sleep(100 * time.Millisecond)

	lib, err := store.Update(ctx, func(lib *models.Library) (storage.Change, error) {
		lib.Folders = append(lib.Folders, models.Folder{ID: "f1", Name: "Mine"})
		return storage.ChangeFolders, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	// The writer indexes its own result before the watcher settles.
	if err := db.Replace(lib); err != nil {
		t.Fatal(err)
	}

	time.Sleep(3 * debounceInterval)
	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("callback fired %d times for an already indexed write", calls)
	}
}

func TestIsLibraryDoc(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{storage.BookmarksFile, true},
		{storage.FoldersFile, true},
		{storage.TempPrefix + "123", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		if got := isLibraryDoc(tt.name); got != tt.want {
			t.Errorf("isLibraryDoc(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
