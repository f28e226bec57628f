//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS bookmarks_fts USING fts5(
			id UNINDEXED,
			title,
			url,
			folder_path,
			tags,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsReset(tx *sql.Tx) error {
	if _, err := tx.Exec(`DELETE FROM bookmarks_fts`); err != nil {
		return fmt.Errorf("index: clear fts: %w", err)
	}
	return nil
}

func ftsInsert(tx *sql.Tx, id, title, url, folderPath string, tags []string) error {
	_, err := tx.Exec(`INSERT INTO bookmarks_fts (id, title, url, folder_path, tags) VALUES (?, ?, ?, ?, ?)`,
		id, title, url, folderPath, strings.Join(tags, " "))
	if err != nil {
		return fmt.Errorf("index: insert fts: %w", err)
	}
	return nil
}

// ftsQuery quotes every whitespace-separated term so user input never hits
// FTS5 query syntax; terms are ANDed and prefix-matched.
func ftsQuery(q string) string {
	fields := strings.Fields(q)
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"*`
	}
	return strings.Join(fields, " ")
}

// Search performs an FTS5 full-text search and returns matching results with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	q := ftsQuery(query)
	if q == "" {
		return []SearchResult{}, nil
	}
	rows, err := db.conn.Query(`
		SELECT b.id, b.title, b.url, b.folder_id, b.folder_path,
		       snippet(bookmarks_fts, 1, '<b>', '</b>', '...', 32)
		FROM bookmarks_fts
		JOIN bookmarks b ON b.id = bookmarks_fts.id
		WHERE bookmarks_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, q, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanResults(rows)
}
