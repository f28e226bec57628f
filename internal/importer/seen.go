package importer

import "github.com/starford/raido/internal/models"

// URLSet remembers urls so each one is admitted at most once per import.
type URLSet map[string]struct{}

// NewURLSet seeds the set with every url already in the store.
func NewURLSet(existing []models.Bookmark) URLSet {
	s := make(URLSet, len(existing))
	for _, b := range existing {
		s[b.URL] = struct{}{}
	}
	return s
}

// Admit records url and reports whether it was new.
func (s URLSet) Admit(url string) bool {
	if _, ok := s[url]; ok {
		return false
	}
	s[url] = struct{}{}
	return true
}
