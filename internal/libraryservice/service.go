// Package libraryservice coordinates the store, the import engine, the search
// index and change events for every library operation.
package libraryservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/raido/internal/importer"
	"github.com/starford/raido/internal/index"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/repair"
	"github.com/starford/raido/internal/sse"
	"github.com/starford/raido/internal/storage"
)

// Publisher receives library change events. *sse.Broker satisfies it.
type Publisher interface {
	PublishChange(event sse.Event)
}

// Service coordinates storage, index and event operations.
type Service struct {
	store       storage.Provider
	db          index.LibraryIndex
	events      Publisher
	importer    *importer.Importer
	logger      *slog.Logger
	newID       models.IDFunc
	now         func() time.Time
	sampleLimit int
}

// Option configures a Service.
type Option func(*Service)

// WithIndex keeps idx in step with every write and enables Search.
func WithIndex(idx index.LibraryIndex) Option {
	return func(s *Service) { s.db = idx }
}

// WithEvents publishes a change event after every successful write.
func WithEvents(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithIDFunc overrides identifier generation for new bookmarks and folders.
func WithIDFunc(fn models.IDFunc) Option {
	return func(s *Service) { s.newID = fn }
}

// WithClock overrides the time source for add and creation dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSampleLimit caps the samples returned by reports and listings.
func WithSampleLimit(n int) Option {
	return func(s *Service) { s.sampleLimit = n }
}

// NewService creates a library service over store.
func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:       store,
		logger:      slog.Default(),
		newID:       models.NewID,
		now:         time.Now,
		sampleLimit: repair.DefaultSampleLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.importer = importer.New(
		importer.WithIDFunc(s.newID),
		importer.WithClock(s.now),
		importer.WithLogger(s.logger),
	)
	return s
}

// Data returns the library ordered for display.
func (s *Service) Data(_ context.Context) (*models.Library, error) {
	lib, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	lib.SortForDisplay()
	return lib, nil
}

// Folders returns every folder ordered for display.
func (s *Service) Folders(ctx context.Context) ([]models.Folder, error) {
	lib, err := s.Data(ctx)
	if err != nil {
		return nil, err
	}
	return lib.Folders, nil
}

// Search delegates full-text search to the index. Without an index it
// returns no results.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	if s.db == nil {
		return []index.SearchResult{}, nil
	}
	return s.db.Search(query, limit)
}

// Version returns the current library version.
func (s *Service) Version(_ context.Context) (string, error) {
	lib, err := s.store.Load()
	if err != nil {
		return "", err
	}
	return lib.Version, nil
}

// update runs fn through the store and, when anything was written, reindexes
// and publishes the event built by eventFn.
func (s *Service) update(ctx context.Context, version string, fn storage.UpdateFunc, eventFn func() sse.Event) (*models.Library, error) {
	var wrote bool
	lib, err := s.store.UpdateIfMatch(ctx, version, func(lib *models.Library) (storage.Change, error) {
		change, err := fn(lib)
		wrote = change != storage.ChangeNone
		return change, err
	})
	if err != nil {
		return nil, err
	}
	if !wrote {
		return lib, nil
	}
	s.reindex(lib)
	if s.events != nil && eventFn != nil {
		s.events.PublishChange(eventFn())
	}
	return lib, nil
}

// reindex refreshes the search index. Failures are logged, not returned:
// the store is the source of truth and the watcher will retry.
func (s *Service) reindex(lib *models.Library) {
	if s.db == nil {
		return
	}
	if err := s.db.Replace(lib); err != nil {
		s.logger.Warn("index: replace failed", slog.String("error", err.Error()))
	}
}

// Reindexed forwards a watcher-driven re-index to subscribers.
func (s *Service) Reindexed(version string, files []string) {
	if s.events == nil {
		return
	}
	s.events.PublishChange(sse.Event{
		Type: sse.TypeStoreChanged,
		Data: map[string]any{"version": version, "files": files},
	})
}
