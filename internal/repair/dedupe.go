package repair

import (
	"slices"
	"sort"

	"github.com/starford/raido/internal/importer"
	"github.com/starford/raido/internal/models"
)

// DedupeResult is the outcome of a folder dedup pass.
type DedupeResult struct {
	Bookmarks []models.Bookmark
	Folders   []models.Folder
	Merged    int
	Lifted    int
}

// Dedupe merges folders whose normalized names collide, wherever they sit in
// the hierarchy. In each group the folder with the smallest created_date
// survives (ties keep collection order). Bookmarks and child folders of the
// removed duplicates move to the survivor; any folder that this leaves as its
// own ancestor is lifted to root. Inputs are not modified.
func Dedupe(bookmarks []models.Bookmark, folders []models.Folder) *DedupeResult {
	var order []string
	groups := make(map[string][]models.Folder)
	for _, f := range folders {
		k := importer.NormalizeName(f.Name)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], f)
	}

	canonical := make(map[string]string) // removed id -> survivor id
	for _, k := range order {
		group := groups[k]
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].CreatedDate < group[j].CreatedDate
		})
		for _, dup := range group[1:] {
			canonical[dup.ID] = group[0].ID
		}
	}

	res := &DedupeResult{
		Bookmarks: slices.Clone(bookmarks),
		Merged:    len(canonical),
	}
	if res.Merged == 0 {
		res.Folders = slices.Clone(folders)
		return res
	}

	for i := range res.Bookmarks {
		if id, ok := canonical[res.Bookmarks[i].FolderID]; ok {
			res.Bookmarks[i].FolderID = id
		}
	}
	for _, f := range folders {
		if _, removed := canonical[f.ID]; removed {
			continue
		}
		if id, ok := canonical[f.ParentID]; ok {
			f.ParentID = id
		}
		res.Folders = append(res.Folders, f)
	}
	res.Lifted = breakCycles(res.Folders)
	return res
}
