package libraryservice

import (
	"context"
	"log/slog"

	"github.com/starford/raido/internal/importer"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/repair"
	"github.com/starford/raido/internal/sse"
	"github.com/starford/raido/internal/storage"
)

// ImportSummary is the outcome of a persisted import.
type ImportSummary struct {
	Count          int    `json:"count"`
	CreatedFolders int    `json:"created_folders"`
	Format         string `json:"format"`
	Version        string `json:"version"`
}

// Import merges raw into the library. The whole read-merge-write cycle runs
// under the store's writer lock, so concurrent imports never lose updates.
func (s *Service) Import(ctx context.Context, raw []byte) (*ImportSummary, error) {
	var res *importer.Result
	lib, err := s.update(ctx, "", func(lib *models.Library) (storage.Change, error) {
		r, err := s.importer.Import(raw, lib.Bookmarks, lib.Folders)
		if err != nil {
			return storage.ChangeNone, err
		}
		res = r
		lib.Bookmarks = r.Bookmarks
		if r.FoldersChanged() {
			lib.Folders = r.Folders
			return storage.ChangeAll, nil
		}
		return storage.ChangeBookmarks, nil
	}, func() sse.Event {
		return sse.Event{Type: sse.TypeImportCompleted, Data: map[string]any{
			"count":           res.Imported,
			"created_folders": res.CreatedFolders,
		}}
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("import: persisted",
		slog.Int("count", res.Imported),
		slog.Int("created_folders", res.CreatedFolders),
		slog.String("format", string(res.Path)))
	return &ImportSummary{
		Count:          res.Imported,
		CreatedFolders: res.CreatedFolders,
		Format:         string(res.Path),
		Version:        lib.Version,
	}, nil
}

// Dedupe merges folders with colliding names and returns how many were
// removed. Nothing is written when there is nothing to merge.
func (s *Service) Dedupe(ctx context.Context) (int, error) {
	var res *repair.DedupeResult
	_, err := s.update(ctx, "", func(lib *models.Library) (storage.Change, error) {
		res = repair.Dedupe(lib.Bookmarks, lib.Folders)
		if res.Merged == 0 {
			return storage.ChangeNone, nil
		}
		lib.Bookmarks, lib.Folders = res.Bookmarks, res.Folders
		return storage.ChangeAll, nil
	}, func() sse.Event {
		return sse.Event{Type: sse.TypeFoldersDeduped, Data: map[string]int{"merged": res.Merged}}
	})
	if err != nil {
		return 0, err
	}
	if res.Lifted > 0 {
		s.logger.Warn("dedupe: lifted folders to root to break cycles", slog.Int("lifted", res.Lifted))
	}
	s.logger.Info("dedupe: done", slog.Int("merged", res.Merged))
	return res.Merged, nil
}

// Repair re-files stored bookmarks into the folder tree of a browser export.
func (s *Service) Repair(ctx context.Context, raw []byte) (*repair.RemapReport, error) {
	var report *repair.RemapReport
	remapper := repair.Remapper{NewID: s.newID, Now: s.now, Logger: s.logger}
	_, err := s.update(ctx, "", func(lib *models.Library) (storage.Change, error) {
		r, err := remapper.Remap(raw, lib)
		if err != nil {
			return storage.ChangeNone, err
		}
		report = r
		switch {
		case r.CreatedFolders > 0:
			return storage.ChangeAll, nil
		case r.UpdatedBookmarks > 0:
			return storage.ChangeBookmarks, nil
		}
		return storage.ChangeNone, nil
	}, func() sse.Event {
		return sse.Event{Type: sse.TypeStoreChanged, Data: report}
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Report returns the orphan report for the current library.
func (s *Service) Report(_ context.Context) (*repair.OrphanReport, error) {
	lib, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return repair.Orphans(lib, s.sampleLimit), nil
}
