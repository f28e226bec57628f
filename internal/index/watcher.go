package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/starford/raido/internal/storage"
)

const debounceInterval = 200 * time.Millisecond

// EventCallback is called after a watcher-driven re-index.
// files lists the store documents that changed on disk.
type EventCallback func(version string, files []string)

// Watch starts an fsnotify watcher on the store directory and re-indexes
// after the library documents change on disk, until ctx is cancelled.
//
// Bursts of events are debounced. On each settled burst the store cache is
// invalidated and the index re-synced; cb (if non-nil) is called only when the
// library version actually moved, so the store's own writes, already indexed
// by the service, stay silent.
func Watch(ctx context.Context, db *DB, store storage.Provider, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := store.Root()
	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var timer *time.Timer
	var timerCh <-chan time.Time
	pending := make(map[string]struct{})

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounceInterval)
			timerCh = timer.C
		} else {
			timer.Reset(debounceInterval)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			files := make([]string, 0, len(pending))
			for name := range pending {
				files = append(files, name)
			}
			slices.Sort(files)
			clear(pending)
			resync(db, store, logger, files, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !isLibraryDoc(name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: change", slog.String("file", name), slog.String("op", ev.Op.String()))
			pending[name] = struct{}{}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func resync(db *DB, store storage.Provider, logger *slog.Logger, files []string, cb EventCallback) {
	store.Invalidate()
	changed, err := Sync(db, store, logger)
	if err != nil {
		logger.Warn("watcher: sync failed", slog.String("error", err.Error()))
		return
	}
	if !changed {
		return
	}
	version, _ := db.Version()
	logger.Info("watcher: re-indexed",
		slog.String("files", strings.Join(files, ",")),
		slog.String("version", version))
	if cb != nil {
		cb(version, files)
	}
}

// isLibraryDoc filters out temp files and anything else sharing the directory.
func isLibraryDoc(name string) bool {
	if strings.HasPrefix(name, storage.TempPrefix) {
		return false
	}
	return name == storage.BookmarksFile || name == storage.FoldersFile
}
