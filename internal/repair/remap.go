package repair

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/importer"
	"github.com/starford/raido/internal/models"
)

const notFoundSampleSize = 20

// MissingBookmark is an export entry with no matching stored bookmark.
type MissingBookmark struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	TargetFolder string `json:"target_folder"`
}

// RemapReport summarizes a Remap run.
type RemapReport struct {
	CreatedFolders   int               `json:"created_folders"`
	UpdatedBookmarks int               `json:"updated_bookmarks"`
	NotFoundCount    int               `json:"not_found_count"`
	NotFoundSample   []MissingBookmark `json:"not_found_sample"`
}

// Remapper re-files stored bookmarks into the folder tree of a browser export.
type Remapper struct {
	NewID  models.IDFunc
	Now    func() time.Time
	Logger *slog.Logger
}

// Remap walks raw, creating missing folders, and moves every stored bookmark
// that matches an export entry (by url, else by title) into the entry's
// folder. lib is modified in place.
func (m Remapper) Remap(raw []byte, lib *models.Library) (*RemapReport, error) {
	if raw == nil {
		return nil, apperr.ErrNoUploadedFile
	}
	newID, now, logger := m.NewID, m.Now, m.Logger
	if newID == nil {
		newID = models.NewID
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	byURL := make(map[string]int, len(lib.Bookmarks))
	byTitle := make(map[string]int, len(lib.Bookmarks))
	for i := len(lib.Bookmarks) - 1; i >= 0; i-- {
		byURL[lib.Bookmarks[i].URL] = i
		byTitle[lib.Bookmarks[i].Title] = i
	}

	report := &RemapReport{NotFoundSample: []MissingBookmark{}}
	resolver := importer.NewResolver(lib.Folders, newID, now, logger)
	found, err := importer.Walk(raw, resolver.Resolve, func(a importer.Anchor) {
		idx, ok := byURL[a.URL]
		if !ok {
			idx, ok = byTitle[a.Title]
		}
		if !ok {
			report.NotFoundCount++
			if len(report.NotFoundSample) < notFoundSampleSize {
				report.NotFoundSample = append(report.NotFoundSample, MissingBookmark{
					Title: a.Title, URL: a.URL, TargetFolder: a.FolderID,
				})
			}
			return
		}
		lib.Bookmarks[idx].FolderID = a.FolderID
		report.UpdatedBookmarks++
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: no bookmark list in export", apperr.ErrUnparseableImport)
	}

	lib.Folders = resolver.Folders()
	report.CreatedFolders = resolver.Created()
	logger.Info("repair: remapped",
		slog.Int("created_folders", report.CreatedFolders),
		slog.Int("updated_bookmarks", report.UpdatedBookmarks),
		slog.Int("not_found", report.NotFoundCount))
	return report, nil
}
