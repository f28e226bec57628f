package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/raido/internal/models"
)

const versionKey = "library_version"

// SearchResult represents one search hit.
type SearchResult struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	FolderID   string `json:"folder_id"`
	FolderPath string `json:"folder_path"`
	Snippet    string `json:"snippet"`
}

// Replace rebuilds the index from lib inside a single transaction and records
// lib.Version so later syncs can skip unchanged snapshots.
func (db *DB) Replace(lib *models.Library) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, stmt := range []string{`DELETE FROM bookmarks`, `DELETE FROM folders`} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("index: clear: %w", err)
		}
	}
	if err := ftsReset(tx); err != nil {
		return err
	}

	folderStmt, err := tx.Prepare(`INSERT OR REPLACE INTO folders (id, name, parent_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare folder insert: %w", err)
	}
	defer folderStmt.Close()
	for _, f := range lib.Folders {
		if _, err := folderStmt.Exec(f.ID, f.Name, f.ParentID); err != nil {
			return fmt.Errorf("index: insert folder: %w", err)
		}
	}

	paths := folderPaths(lib.Folders)
	bmStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO bookmarks (id, title, url, folder_id, folder_path, tags, add_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare bookmark insert: %w", err)
	}
	defer bmStmt.Close()
	for _, b := range lib.Bookmarks {
		tags := b.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, _ := json.Marshal(tags)
		path := paths[b.FolderID]
		if _, err := bmStmt.Exec(b.ID, b.Title, b.URL, b.FolderID, path, string(tagsJSON), b.AddDate); err != nil {
			return fmt.Errorf("index: insert bookmark: %w", err)
		}
		if err := ftsInsert(tx, b.ID, b.Title, b.URL, path, tags); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, versionKey, lib.Version)
	if err != nil {
		return fmt.Errorf("index: set version: %w", err)
	}

	return tx.Commit()
}

// Version returns the library version last indexed, or empty string if none.
func (db *DB) Version() (string, error) {
	var v string
	err := db.conn.QueryRow(`SELECT value FROM meta WHERE key = ?`, versionKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: version: %w", err)
	}
	return v, nil
}

// Counts returns the number of indexed bookmarks and folders.
func (db *DB) Counts() (bookmarks, folders int, err error) {
	err = db.conn.QueryRow(`SELECT (SELECT count(*) FROM bookmarks), (SELECT count(*) FROM folders)`).
		Scan(&bookmarks, &folders)
	if err != nil {
		return 0, 0, fmt.Errorf("index: counts: %w", err)
	}
	return bookmarks, folders, nil
}

// folderPaths maps each folder id to its slash-joined ancestry, e.g.
// "Work / Projects". Walks stop at a repeated id so stored cycles terminate.
func folderPaths(folders []models.Folder) map[string]string {
	byID := make(map[string]models.Folder, len(folders))
	for _, f := range folders {
		if _, ok := byID[f.ID]; !ok {
			byID[f.ID] = f
		}
	}
	out := make(map[string]string, len(folders))
	for id := range byID {
		var names []string
		seen := make(map[string]struct{})
		for cur := id; cur != ""; {
			if _, ok := seen[cur]; ok {
				break
			}
			seen[cur] = struct{}{}
			f, ok := byID[cur]
			if !ok {
				break
			}
			names = append(names, f.Name)
			cur = f.ParentID
		}
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
		out[id] = strings.Join(names, " / ")
	}
	return out
}

func scanResults(rows *sql.Rows) ([]SearchResult, error) {
	defer rows.Close()
	out := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.Title, &r.URL, &r.FolderID, &r.FolderPath, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
