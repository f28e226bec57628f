package models

import (
	"slices"
	"sort"
	"strings"
)

// Library is an in-memory snapshot of both persisted collections.
// Version identifies the on-disk state the snapshot was read from.
type Library struct {
	Bookmarks []Bookmark `json:"bookmarks"`
	Folders   []Folder   `json:"folders"`
	Version   string     `json:"version"`
}

// Clone returns a deep copy so callers can mutate freely.
func (l *Library) Clone() *Library {
	out := &Library{
		Bookmarks: make([]Bookmark, len(l.Bookmarks)),
		Folders:   slices.Clone(l.Folders),
		Version:   l.Version,
	}
	for i, b := range l.Bookmarks {
		b.Tags = slices.Clone(b.Tags)
		out.Bookmarks[i] = b
	}
	if out.Folders == nil {
		out.Folders = []Folder{}
	}
	return out
}

// FolderByID returns the index of the folder with the given id, or -1.
func (l *Library) FolderByID(id string) int {
	return slices.IndexFunc(l.Folders, func(f Folder) bool { return f.ID == id })
}

// BookmarkByID returns the index of the bookmark with the given id, or -1.
func (l *Library) BookmarkByID(id string) int {
	return slices.IndexFunc(l.Bookmarks, func(b Bookmark) bool { return b.ID == id })
}

// Normalize replaces nil slices with empty ones so documents always
// serialize as JSON arrays.
func (l *Library) Normalize() {
	if l.Bookmarks == nil {
		l.Bookmarks = []Bookmark{}
	}
	if l.Folders == nil {
		l.Folders = []Folder{}
	}
	for i := range l.Bookmarks {
		if l.Bookmarks[i].Tags == nil {
			l.Bookmarks[i].Tags = []string{}
		}
	}
}

// SortForDisplay orders folders by sort_order then case-insensitive name,
// and bookmarks by sort_order then newest first.
func (l *Library) SortForDisplay() {
	sort.SliceStable(l.Folders, func(i, j int) bool {
		a, b := l.Folders[i], l.Folders[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	sort.SliceStable(l.Bookmarks, func(i, j int) bool {
		a, b := l.Bookmarks[i], l.Bookmarks[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.AddDate > b.AddDate
	})
}
