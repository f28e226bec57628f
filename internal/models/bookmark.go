// Package models defines the domain types for Raido.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// Bookmark is a single saved link.
type Bookmark struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	FolderID  string   `json:"folder_id"` // "" = uncategorized
	Tags      []string `json:"tags"`
	AddDate   int64    `json:"add_date"` // epoch seconds
	SortOrder int      `json:"sort_order"`
}

// Folder groups bookmarks and other folders.
type Folder struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ParentID    string `json:"parent_id"` // "" = root level
	CreatedDate int64  `json:"created_date"`
	SortOrder   int    `json:"sort_order"`
	Description string `json:"description,omitempty"`
}

// IDFunc generates opaque entity identifiers.
type IDFunc func() string

// NewID returns a fresh identifier of the form "id_<32 hex chars>".
func NewID() string {
	return "id_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
