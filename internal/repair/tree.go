// Package repair holds maintenance passes over a stored library: folder
// deduplication, hierarchy checks, export remapping and orphan reports.
package repair

import "github.com/starford/raido/internal/models"

func parentIndex(folders []models.Folder) map[string]string {
	parents := make(map[string]string, len(folders))
	for _, f := range folders {
		parents[f.ID] = f.ParentID
	}
	return parents
}

// WouldCycle reports whether setting id's parent to parentID would make id
// its own ancestor. Loops already present above parentID that do not pass
// through id are not reported.
func WouldCycle(folders []models.Folder, id, parentID string) bool {
	return reaches(parentIndex(folders), parentID, id)
}

// reaches walks up from start and reports whether it meets target.
func reaches(parents map[string]string, start, target string) bool {
	seen := make(map[string]struct{})
	for cur := start; cur != ""; cur = parents[cur] {
		if cur == target {
			return true
		}
		if _, ok := seen[cur]; ok {
			return false
		}
		seen[cur] = struct{}{}
	}
	return false
}

// Subtree returns the ids of id and every folder below it.
func Subtree(folders []models.Folder, id string) map[string]struct{} {
	children := make(map[string][]string, len(folders))
	for _, f := range folders {
		children[f.ParentID] = append(children[f.ParentID], f.ID)
	}
	out := map[string]struct{}{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range children[cur] {
			if _, ok := out[c]; ok {
				continue
			}
			out[c] = struct{}{}
			queue = append(queue, c)
		}
	}
	return out
}

// breakCycles lifts to root every folder that is its own ancestor, in
// collection order, and returns how many were lifted.
func breakCycles(folders []models.Folder) int {
	parents := parentIndex(folders)
	lifted := 0
	for i := range folders {
		f := &folders[i]
		if f.ParentID != "" && reaches(parents, f.ParentID, f.ID) {
			f.ParentID = ""
			parents[f.ID] = ""
			lifted++
		}
	}
	return lifted
}
