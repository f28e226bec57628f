// Package storage persists the bookmark library as two sibling JSON documents.
package storage

import (
	"context"

	"github.com/starford/raido/internal/models"
)

// Document file names inside the store directory.
const (
	BookmarksFile = "bookmarks.json"
	FoldersFile   = "folders.json"
)

// Change reports which documents an update rewrites.
type Change uint8

const (
	ChangeFolders Change = 1 << iota
	ChangeBookmarks

	ChangeNone Change = 0
	ChangeAll         = ChangeFolders | ChangeBookmarks
)

// UpdateFunc mutates lib in place and reports which documents must be written.
// Returning an error aborts the update without touching the disk.
type UpdateFunc func(lib *models.Library) (Change, error)

// Provider is the interface for library persistence.
type Provider interface {
	// Load returns a possibly slightly stale snapshot without taking the writer lock.
	Load() (*models.Library, error)
	// Update runs fn against a fresh snapshot and persists the result.
	Update(ctx context.Context, fn UpdateFunc) (*models.Library, error)
	// UpdateIfMatch is Update guarded by a version previously returned from Load.
	UpdateIfMatch(ctx context.Context, version string, fn UpdateFunc) (*models.Library, error)
	// Invalidate drops any cached snapshot so the next Load re-reads the disk.
	Invalidate()
	// Root returns the absolute store directory.
	Root() string
}
