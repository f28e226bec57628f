//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE on the bookmarks table.
	return nil
}

func ftsReset(_ *sql.Tx) error { return nil }

func ftsInsert(_ *sql.Tx, _, _, _, _ string, _ []string) error { return nil }

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT id, title, url, folder_id, folder_path, substr(title, 1, 200)
		FROM bookmarks
		WHERE title LIKE ? OR url LIKE ? OR tags LIKE ? OR folder_path LIKE ?
		ORDER BY add_date DESC
		LIMIT ?
	`, like, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanResults(rows)
}
