package libraryservice

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/repair"
	"github.com/starford/raido/internal/sse"
	"github.com/starford/raido/internal/storage"
)

// NewFolder holds the fields of a folder to add.
type NewFolder struct {
	Name        string
	ParentID    string
	Description string
	SortOrder   int
}

// FolderUpdate replaces a folder's name, parent and description. SortOrder is
// only changed when set.
type FolderUpdate struct {
	Name        string
	ParentID    string
	Description string
	SortOrder   *int
}

// FolderDeletion reports what DeleteFolder removed.
type FolderDeletion struct {
	Folders  int `json:"folders"`
	Orphaned int `json:"orphaned_bookmarks"`
}

// AddFolder creates a folder under ParentID (root when empty).
func (s *Service) AddFolder(ctx context.Context, version string, in NewFolder) (*models.Folder, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalid)
	}
	var created models.Folder
	_, err := s.update(ctx, version, func(lib *models.Library) (storage.Change, error) {
		if err := requireFolder(lib, in.ParentID); err != nil {
			return storage.ChangeNone, err
		}
		created = models.Folder{
			ID:          s.newID(),
			Name:        name,
			ParentID:    in.ParentID,
			CreatedDate: s.now().Unix(),
			SortOrder:   in.SortOrder,
			Description: in.Description,
		}
		lib.Folders = append(lib.Folders, created)
		return storage.ChangeFolders, nil
	}, func() sse.Event {
		return folderEvent("created", created.ID)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateFolder changes a folder, rejecting a parent that would make the
// folder its own ancestor.
func (s *Service) UpdateFolder(ctx context.Context, version, id string, in FolderUpdate) (*models.Folder, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalid)
	}
	var updated models.Folder
	_, err := s.update(ctx, version, func(lib *models.Library) (storage.Change, error) {
		i := lib.FolderByID(id)
		if i < 0 {
			return storage.ChangeNone, apperr.ErrNotFound
		}
		if in.ParentID != "" {
			if repair.WouldCycle(lib.Folders, id, in.ParentID) {
				return storage.ChangeNone, apperr.ErrFolderCycle
			}
			if err := requireFolder(lib, in.ParentID); err != nil {
				return storage.ChangeNone, err
			}
		}
		f := &lib.Folders[i]
		f.Name = name
		f.ParentID = in.ParentID
		f.Description = in.Description
		if in.SortOrder != nil {
			f.SortOrder = *in.SortOrder
		}
		updated = *f
		return storage.ChangeFolders, nil
	}, func() sse.Event {
		return folderEvent("updated", id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteFolder removes a folder and every folder below it. Bookmarks filed in
// any removed folder become uncategorized.
func (s *Service) DeleteFolder(ctx context.Context, version, id string) (*FolderDeletion, error) {
	out := &FolderDeletion{}
	_, err := s.update(ctx, version, func(lib *models.Library) (storage.Change, error) {
		if lib.FolderByID(id) < 0 {
			return storage.ChangeNone, apperr.ErrNotFound
		}
		doomed := repair.Subtree(lib.Folders, id)
		before := len(lib.Folders)
		lib.Folders = slices.DeleteFunc(lib.Folders, func(f models.Folder) bool {
			_, ok := doomed[f.ID]
			return ok
		})
		out.Folders = before - len(lib.Folders)

		change := storage.ChangeFolders
		for i := range lib.Bookmarks {
			if _, ok := doomed[lib.Bookmarks[i].FolderID]; ok {
				lib.Bookmarks[i].FolderID = ""
				out.Orphaned++
				change = storage.ChangeAll
			}
		}
		return change, nil
	}, func() sse.Event {
		return folderEvent("deleted", id)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func folderEvent(op, id string) sse.Event {
	return sse.Event{Type: sse.TypeFolderChanged, Data: map[string]string{"op": op, "id": id}}
}
