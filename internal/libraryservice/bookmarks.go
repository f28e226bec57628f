package libraryservice

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/sse"
	"github.com/starford/raido/internal/storage"
)

// NewBookmark holds the fields of a bookmark to add.
type NewBookmark struct {
	Title     string
	URL       string
	FolderID  string
	Tags      []string
	SortOrder int
}

// BookmarkPatch is a partial bookmark update; nil fields are left unchanged.
type BookmarkPatch struct {
	Title     *string
	URL       *string
	FolderID  *string
	Tags      *[]string
	SortOrder *int
}

// Uncategorized lists bookmarks without a folder.
type Uncategorized struct {
	Count  int               `json:"count"`
	Sample []models.Bookmark `json:"sample"`
}

// AddBookmark stores a new bookmark. version, when non-empty, must match the
// current library version.
func (s *Service) AddBookmark(ctx context.Context, version string, in NewBookmark) (*models.Bookmark, error) {
	title, url := strings.TrimSpace(in.Title), strings.TrimSpace(in.URL)
	if title == "" || url == "" {
		return nil, fmt.Errorf("%w: title and url are required", apperr.ErrInvalid)
	}
	var created models.Bookmark
	_, err := s.update(ctx, version, func(lib *models.Library) (storage.Change, error) {
		if err := requireFolder(lib, in.FolderID); err != nil {
			return storage.ChangeNone, err
		}
		tags := slices.Clone(in.Tags)
		if tags == nil {
			tags = []string{}
		}
		created = models.Bookmark{
			ID:        s.newID(),
			Title:     title,
			URL:       url,
			FolderID:  in.FolderID,
			Tags:      tags,
			AddDate:   s.now().Unix(),
			SortOrder: in.SortOrder,
		}
		lib.Bookmarks = append(lib.Bookmarks, created)
		return storage.ChangeBookmarks, nil
	}, func() sse.Event {
		return bookmarkEvent("created", created.ID)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateBookmark applies patch to the bookmark with the given id.
func (s *Service) UpdateBookmark(ctx context.Context, version, id string, patch BookmarkPatch) (*models.Bookmark, error) {
	var updated models.Bookmark
	_, err := s.update(ctx, version, func(lib *models.Library) (storage.Change, error) {
		i := lib.BookmarkByID(id)
		if i < 0 {
			return storage.ChangeNone, apperr.ErrNotFound
		}
		b := &lib.Bookmarks[i]
		if patch.Title != nil {
			b.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.URL != nil {
			b.URL = strings.TrimSpace(*patch.URL)
		}
		if patch.FolderID != nil {
			if err := requireFolder(lib, *patch.FolderID); err != nil {
				return storage.ChangeNone, err
			}
			b.FolderID = *patch.FolderID
		}
		if patch.Tags != nil {
			b.Tags = slices.Clone(*patch.Tags)
		}
		if patch.SortOrder != nil {
			b.SortOrder = *patch.SortOrder
		}
		if b.Title == "" || b.URL == "" {
			return storage.ChangeNone, fmt.Errorf("%w: title and url cannot be empty", apperr.ErrInvalid)
		}
		updated = *b
		return storage.ChangeBookmarks, nil
	}, func() sse.Event {
		return bookmarkEvent("updated", id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBookmark removes the bookmark with the given id.
func (s *Service) DeleteBookmark(ctx context.Context, version, id string) error {
	_, err := s.update(ctx, version, func(lib *models.Library) (storage.Change, error) {
		i := lib.BookmarkByID(id)
		if i < 0 {
			return storage.ChangeNone, apperr.ErrNotFound
		}
		lib.Bookmarks = slices.Delete(lib.Bookmarks, i, i+1)
		return storage.ChangeBookmarks, nil
	}, func() sse.Event {
		return bookmarkEvent("deleted", id)
	})
	return err
}

// ListUncategorized returns the bookmarks with an empty folder id, sampled
// to at most limit entries (the service default when limit <= 0).
func (s *Service) ListUncategorized(_ context.Context, limit int) (*Uncategorized, error) {
	if limit <= 0 {
		limit = s.sampleLimit
	}
	lib, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	out := &Uncategorized{Sample: []models.Bookmark{}}
	for _, b := range lib.Bookmarks {
		if b.FolderID != "" {
			continue
		}
		out.Count++
		if len(out.Sample) < limit {
			out.Sample = append(out.Sample, b)
		}
	}
	return out, nil
}

// DeleteUncategorized removes every bookmark with an empty folder id and
// returns how many were deleted.
func (s *Service) DeleteUncategorized(ctx context.Context, version string) (int, error) {
	deleted := 0
	_, err := s.update(ctx, version, func(lib *models.Library) (storage.Change, error) {
		before := len(lib.Bookmarks)
		lib.Bookmarks = slices.DeleteFunc(lib.Bookmarks, func(b models.Bookmark) bool {
			return b.FolderID == ""
		})
		deleted = before - len(lib.Bookmarks)
		if deleted == 0 {
			return storage.ChangeNone, nil
		}
		return storage.ChangeBookmarks, nil
	}, func() sse.Event {
		return sse.Event{Type: sse.TypeBookmarkChanged, Data: map[string]any{"op": "deleted", "count": deleted}}
	})
	return deleted, err
}

func requireFolder(lib *models.Library, id string) error {
	if id == "" || lib.FolderByID(id) >= 0 {
		return nil
	}
	return fmt.Errorf("%w: folder %q does not exist", apperr.ErrInvalid, id)
}

func bookmarkEvent(op, id string) sse.Event {
	return sse.Event{Type: sse.TypeBookmarkChanged, Data: map[string]string{"op": op, "id": id}}
}
