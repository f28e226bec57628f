package api

import (
	"errors"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/index"
	"github.com/starford/raido/internal/libraryservice"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/repair"
)

// CreateBookmarkRequest is the request body for adding a bookmark.
type CreateBookmarkRequest struct {
	Title     string   `json:"title" example:"The Go Programming Language" validate:"required"`
	URL       string   `json:"url" example:"https://go.dev/" validate:"required"`
	FolderID  string   `json:"folder_id" example:"id_3f2a..."`
	Tags      []string `json:"tags" example:"go,lang"`
	SortOrder int      `json:"sort_order" example:"0"`
}

// Validate checks the request fields.
func (r CreateBookmarkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 1024)),
		validation.Field(&r.URL, validation.Required, validation.By(absoluteURL)),
	)
}

// UpdateBookmarkRequest is a partial bookmark update; omitted fields are kept.
type UpdateBookmarkRequest struct {
	Title     *string   `json:"title,omitempty" example:"Go"`
	URL       *string   `json:"url,omitempty" example:"https://go.dev/"`
	FolderID  *string   `json:"folder_id,omitempty" example:""`
	Tags      *[]string `json:"tags,omitempty"`
	SortOrder *int      `json:"sort_order,omitempty" example:"1"`
}

// Validate checks the fields that are present.
func (r UpdateBookmarkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty),
		validation.Field(&r.URL, validation.NilOrNotEmpty, validation.By(absoluteURL)),
	)
}

func (r UpdateBookmarkRequest) patch() libraryservice.BookmarkPatch {
	return libraryservice.BookmarkPatch{
		Title:     r.Title,
		URL:       r.URL,
		FolderID:  r.FolderID,
		Tags:      r.Tags,
		SortOrder: r.SortOrder,
	}
}

// FolderRequest is the request body for adding or updating a folder.
type FolderRequest struct {
	Name        string `json:"name" example:"Work" validate:"required"`
	ParentID    string `json:"parent_id" example:""`
	Description string `json:"description" example:"Things for the day job"`
	SortOrder   *int   `json:"sort_order,omitempty" example:"0"`
}

// Validate checks the request fields.
func (r FolderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
	)
}

// absoluteURL accepts string or *string values holding a URL with a scheme.
func absoluteURL(value any) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return errors.New("must be an absolute URL")
	}
	return nil
}

// StatusResponse is the bare success envelope.
type StatusResponse struct {
	Status string `json:"status" example:"success" validate:"required"`
}

// ImportResponse is returned after a successful import.
type ImportResponse struct {
	Status         string `json:"status" example:"success" validate:"required"`
	Count          int    `json:"count" example:"42" validate:"required"`
	CreatedFolders int    `json:"created_folders" example:"3"`
	Format         string `json:"format" example:"markup"`
}

// DedupeResponse is returned after a folder dedup pass.
type DedupeResponse struct {
	Status string `json:"status" example:"success" validate:"required"`
	Merged int    `json:"merged" example:"2" validate:"required"`
}

// DataResponse is the display listing.
type DataResponse struct {
	Status    string            `json:"status" example:"success" validate:"required"`
	Bookmarks []models.Bookmark `json:"bookmarks" validate:"required"`
	Folders   []models.Folder   `json:"folders" validate:"required"`
	Version   string            `json:"version" example:"9f86d0..." validate:"required"`
}

// BookmarkResponse wraps a single bookmark.
type BookmarkResponse struct {
	Status string          `json:"status" example:"success" validate:"required"`
	Data   models.Bookmark `json:"data" validate:"required"`
}

// FolderResponse wraps a single folder.
type FolderResponse struct {
	Status string        `json:"status" example:"success" validate:"required"`
	Data   models.Folder `json:"data" validate:"required"`
}

// FolderDeleteResponse reports a recursive folder deletion.
type FolderDeleteResponse struct {
	Status string `json:"status" example:"success" validate:"required"`
	libraryservice.FolderDeletion
}

// UncategorizedResponse lists bookmarks without a folder.
type UncategorizedResponse struct {
	Status string `json:"status" example:"success" validate:"required"`
	libraryservice.Uncategorized
}

// DeleteUncategorizedResponse reports how many bookmarks were removed.
type DeleteUncategorizedResponse struct {
	Status  string `json:"status" example:"success" validate:"required"`
	Deleted int    `json:"deleted" example:"7" validate:"required"`
}

// RepairResponse reports an export remap.
type RepairResponse struct {
	Status string `json:"status" example:"success" validate:"required"`
	repair.RemapReport
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}
