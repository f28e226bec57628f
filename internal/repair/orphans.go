package repair

import "github.com/starford/raido/internal/models"

// DefaultSampleLimit caps the bookmark samples returned by reports.
const DefaultSampleLimit = 200

// OrphanEntry is one bookmark without a usable folder.
type OrphanEntry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	FolderID string `json:"folder_id"`
}

// OrphanReport counts bookmarks that are uncategorized or point at a folder
// that no longer exists.
type OrphanReport struct {
	TotalBookmarks     int           `json:"total_bookmarks"`
	FoldersCount       int           `json:"folders_count"`
	UncategorizedCount int           `json:"uncategorized_count"`
	DanglingCount      int           `json:"dangling_count"`
	Sample             []OrphanEntry `json:"sample"`
}

// Orphans builds an OrphanReport. UncategorizedCount includes dangling
// bookmarks; DanglingCount counts only those with a missing folder.
func Orphans(lib *models.Library, limit int) *OrphanReport {
	if limit <= 0 {
		limit = DefaultSampleLimit
	}
	ids := make(map[string]struct{}, len(lib.Folders))
	for _, f := range lib.Folders {
		ids[f.ID] = struct{}{}
	}

	r := &OrphanReport{
		TotalBookmarks: len(lib.Bookmarks),
		FoldersCount:   len(lib.Folders),
		Sample:         []OrphanEntry{},
	}
	for _, b := range lib.Bookmarks {
		if b.FolderID != "" {
			if _, ok := ids[b.FolderID]; ok {
				continue
			}
			r.DanglingCount++
		}
		r.UncategorizedCount++
		if len(r.Sample) < limit {
			r.Sample = append(r.Sample, OrphanEntry{ID: b.ID, Title: b.Title, URL: b.URL, FolderID: b.FolderID})
		}
	}
	return r
}
