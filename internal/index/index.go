package index

import "github.com/starford/raido/internal/models"

// LibraryIndex defines the interface for the bookmark search index.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type LibraryIndex interface {
	Replace(lib *models.Library) error
	Version() (string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Counts() (bookmarks, folders int, err error)
	Close() error
}

// Verify *DB satisfies LibraryIndex at compile time.
var _ LibraryIndex = (*DB)(nil)
