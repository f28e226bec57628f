package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/models"
)

// TempPrefix marks in-flight atomic writes inside the store directory.
const TempPrefix = ".raido-tmp-"

// FS implements Provider backed by the local file system.
//
// Writers are serialized by mu. Every update re-reads both documents under the
// lock and re-checks their version stamp right before writing, so a write made
// by another process in between is reported as apperr.ErrConflict instead of
// being overwritten.
type FS struct {
	root  string // absolute path to the store directory
	mu    sync.Mutex
	cache atomic.Pointer[models.Library]
}

var _ Provider = (*FS)(nil)

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute store directory.
func (f *FS) Root() string { return f.root }

// Invalidate drops the cached snapshot.
func (f *FS) Invalidate() { f.cache.Store(nil) }

// Load returns a copy of the cached snapshot, reading the disk on a miss.
func (f *FS) Load() (*models.Library, error) {
	if lib := f.cache.Load(); lib != nil {
		return lib.Clone(), nil
	}
	snap, err := f.read()
	if err != nil {
		return nil, err
	}
	f.cache.Store(snap.lib)
	return snap.lib.Clone(), nil
}

// Update runs fn under the writer lock and persists what it changed.
func (f *FS) Update(ctx context.Context, fn UpdateFunc) (*models.Library, error) {
	return f.update(ctx, "", fn)
}

// UpdateIfMatch fails with apperr.ErrConflict when the store no longer
// matches version. An empty version skips the check.
func (f *FS) UpdateIfMatch(ctx context.Context, version string, fn UpdateFunc) (*models.Library, error) {
	return f.update(ctx, version, fn)
}

func (f *FS) update(ctx context.Context, version string, fn UpdateFunc) (*models.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	snap, err := f.read()
	if err != nil {
		return nil, err
	}
	if version != "" && version != snap.lib.Version {
		return nil, apperr.ErrConflict
	}

	work := snap.lib.Clone()
	change, err := fn(work)
	if err != nil {
		return nil, err
	}
	if change == ChangeNone {
		f.cache.Store(snap.lib)
		return work, nil
	}
	work.Normalize()

	bookmarksRaw, foldersRaw := snap.bookmarks, snap.folders
	if change&ChangeFolders != 0 {
		if foldersRaw, err = encode(work.Folders); err != nil {
			return nil, err
		}
	}
	if change&ChangeBookmarks != 0 {
		if bookmarksRaw, err = encode(work.Bookmarks); err != nil {
			return nil, err
		}
	}

	current, err := f.read()
	if err != nil {
		return nil, err
	}
	if current.lib.Version != snap.lib.Version {
		f.Invalidate()
		return nil, fmt.Errorf("storage: documents changed during update: %w", apperr.ErrConflict)
	}

	// Folders go first: a bookmark must never reference a folder that is not on disk yet.
	if change&ChangeFolders != 0 {
		if err := f.write(FoldersFile, foldersRaw); err != nil {
			f.Invalidate()
			return nil, fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
		}
	}
	if change&ChangeBookmarks != 0 {
		if err := f.write(BookmarksFile, bookmarksRaw); err != nil {
			f.Invalidate()
			return nil, fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
		}
	}

	work.Version = checksum.Stamp(bookmarksRaw, foldersRaw)
	f.cache.Store(work.Clone())
	return work, nil
}

type snapshot struct {
	lib       *models.Library
	bookmarks []byte
	folders   []byte
}

func (f *FS) read() (*snapshot, error) {
	bRaw, err := f.readDoc(BookmarksFile)
	if err != nil {
		return nil, err
	}
	fRaw, err := f.readDoc(FoldersFile)
	if err != nil {
		return nil, err
	}
	lib := &models.Library{Version: checksum.Stamp(bRaw, fRaw)}
	if err := decode(BookmarksFile, bRaw, &lib.Bookmarks); err != nil {
		return nil, err
	}
	if err := decode(FoldersFile, fRaw, &lib.Folders); err != nil {
		return nil, err
	}
	lib.Normalize()
	return &snapshot{lib: lib, bookmarks: bRaw, folders: fRaw}, nil
}

// readDoc returns nil for a document that does not exist yet.
func (f *FS) readDoc(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.root, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}

func decode[T any](name string, data []byte, out *[]T) error {
	if len(bytes.TrimSpace(data)) == 0 {
		*out = []T{}
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("storage: decode %s: %w", name, err)
	}
	return nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("storage: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// write atomically replaces a document: tmp file → fsync → rename.
func (f *FS) write(name string, content []byte) error {
	tmp, err := os.CreateTemp(f.root, TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(f.root, name)); err != nil {
		return fmt.Errorf("storage: rename %s: %w", name, err)
	}
	success = true
	return nil
}
