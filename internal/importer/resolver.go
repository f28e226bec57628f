package importer

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starford/raido/internal/models"
)

// NormalizeName returns the comparison form of a folder name: trimmed and
// lowercased with Unicode-aware rules. Stored names keep their casing.
func NormalizeName(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

type folderKey struct {
	name     string
	parentID string
}

// Resolver is the single source of folder identity during one import pass.
// Folders are matched on (normalized name, parent id); the first folder in
// collection order wins when stored data already holds duplicates.
type Resolver struct {
	folders []models.Folder
	index   map[folderKey]string
	created int

	newID  models.IDFunc
	now    func() time.Time
	logger *slog.Logger
}

// NewResolver seeds a resolver with a copy of the existing folders.
func NewResolver(folders []models.Folder, newID models.IDFunc, now func() time.Time, logger *slog.Logger) *Resolver {
	r := &Resolver{
		folders: slices.Clone(folders),
		index:   make(map[folderKey]string, len(folders)),
		newID:   newID,
		now:     now,
		logger:  logger,
	}
	for _, f := range r.folders {
		k := folderKey{name: NormalizeName(f.Name), parentID: f.ParentID}
		if _, ok := r.index[k]; !ok {
			r.index[k] = f.ID
		}
	}
	return r
}

// Resolve returns the id of the folder called name under parentID,
// creating and appending it when no match exists.
func (r *Resolver) Resolve(name, parentID string) string {
	name = strings.TrimSpace(name)
	k := folderKey{name: NormalizeName(name), parentID: parentID}
	if id, ok := r.index[k]; ok {
		return id
	}

	f := models.Folder{
		ID:          r.newID(),
		Name:        name,
		ParentID:    parentID,
		CreatedDate: r.now().Unix(),
	}
	r.folders = append(r.folders, f)
	r.index[k] = f.ID
	r.created++
	r.logger.Debug("import: created folder",
		slog.String("name", name),
		slog.String("parent_id", parentID),
		slog.String("id", f.ID))
	return f.ID
}

// Folders returns the working set in insertion order.
func (r *Resolver) Folders() []models.Folder { return r.folders }

// Created returns how many folders Resolve has added.
func (r *Resolver) Created() int { return r.created }
