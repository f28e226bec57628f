package index

import (
	"log/slog"

	"github.com/starford/raido/internal/storage"
)

// Sync brings the index up to date with the store. It reports whether the
// index was rebuilt; an index already at the store's version is left alone.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) (bool, error) {
	lib, err := store.Load()
	if err != nil {
		return false, err
	}
	current, err := db.Version()
	if err != nil {
		return false, err
	}
	if current != "" && current == lib.Version {
		logger.Debug("sync: index up to date", slog.String("version", lib.Version))
		return false, nil
	}
	if err := db.Replace(lib); err != nil {
		return false, err
	}
	logger.Debug("sync: indexed",
		slog.Int("bookmarks", len(lib.Bookmarks)),
		slog.Int("folders", len(lib.Folders)),
		slog.String("version", lib.Version))
	return true, nil
}
