// Package importer merges bookmark exports into an existing library.
//
// Two formats are accepted: a JSON array of {url, title?, name?, folder_id?,
// tags?} records, and Netscape bookmark files as written by every major
// browser. The JSON branch appends bookmarks as-is. The markup branch rebuilds
// the folder tree, reusing folders that already exist under the same parent,
// and skips urls the library already holds.
package importer

import (
	"log/slog"
	"slices"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// Importer reconciles import payloads against existing collections.
type Importer struct {
	newID  models.IDFunc
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithIDFunc overrides identifier generation.
func WithIDFunc(fn models.IDFunc) Option {
	return func(im *Importer) { im.newID = fn }
}

// WithClock overrides the time source used for add and creation dates.
func WithClock(now func() time.Time) Option {
	return func(im *Importer) { im.now = now }
}

// WithLogger sets the logger for per-item debug output.
func WithLogger(l *slog.Logger) Option {
	return func(im *Importer) { im.logger = l }
}

// New creates an Importer.
func New(opts ...Option) *Importer {
	im := &Importer{
		newID:  models.NewID,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Result is the outcome of a successful import.
type Result struct {
	Bookmarks      []models.Bookmark
	Folders        []models.Folder
	Imported       int
	CreatedFolders int
	Path           Path
}

// FoldersChanged reports whether the folders document must be rewritten.
// Only the markup branch ever touches folders.
func (r *Result) FoldersChanged() bool {
	return r.Path == PathMarkup
}

// Import merges raw into copies of bookmarks and folders. The inputs are not
// modified. A nil payload means nothing was uploaded.
func (im *Importer) Import(raw []byte, bookmarks []models.Bookmark, folders []models.Folder) (*Result, error) {
	if raw == nil {
		return nil, apperr.ErrNoUploadedFile
	}

	res := &Result{
		Bookmarks: slices.Clone(bookmarks),
		Folders:   slices.Clone(folders),
	}

	if records, ok := decodeRecords(raw); ok {
		added := im.fromRecords(records)
		res.Path = PathStructured
		res.Bookmarks = append(res.Bookmarks, added...)
		res.Imported = len(added)
	} else if err := im.fromMarkup(raw, res); err != nil {
		return nil, err
	}

	if res.Imported == 0 {
		return nil, apperr.ErrNothingImported
	}
	im.logger.Info("import: merged",
		slog.String("path", string(res.Path)),
		slog.Int("imported", res.Imported),
		slog.Int("created_folders", res.CreatedFolders))
	return res, nil
}

func (im *Importer) fromMarkup(raw []byte, res *Result) error {
	resolver := NewResolver(res.Folders, im.newID, im.now, im.logger)
	seen := NewURLSet(res.Bookmarks)
	now := im.now().Unix()

	_, err := Walk(raw, resolver.Resolve, func(a Anchor) {
		if !seen.Admit(a.URL) {
			return
		}
		res.Bookmarks = append(res.Bookmarks, models.Bookmark{
			ID:       im.newID(),
			Title:    a.Title,
			URL:      a.URL,
			FolderID: a.FolderID,
			Tags:     a.Tags,
			AddDate:  now,
		})
		res.Imported++
		im.logger.Debug("import: bookmark",
			slog.String("title", a.Title),
			slog.String("folder_id", a.FolderID))
	})
	if err != nil {
		return err
	}

	res.Path = PathMarkup
	res.Folders = resolver.Folders()
	res.CreatedFolders = resolver.Created()
	return nil
}
