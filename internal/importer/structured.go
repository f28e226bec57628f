package importer

import (
	"encoding/json"
	"strings"

	"github.com/starford/raido/internal/models"
)

// fromRecords converts JSON records into new bookmarks. Records without a
// url, or that are not objects, are skipped. No url dedup happens here.
func (im *Importer) fromRecords(list []json.RawMessage) []models.Bookmark {
	now := im.now().Unix()
	var out []models.Bookmark
	for _, raw := range list {
		var rec map[string]json.RawMessage
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		url := strings.TrimSpace(stringField(rec, "url"))
		if url == "" {
			continue
		}
		title := firstNonEmpty(stringField(rec, "title"), stringField(rec, "name"), url)
		out = append(out, models.Bookmark{
			ID:       im.newID(),
			Title:    title,
			URL:      url,
			FolderID: stringField(rec, "folder_id"),
			Tags:     tagsField(rec),
			AddDate:  now,
		})
	}
	return out
}

func stringField(rec map[string]json.RawMessage, key string) string {
	raw, ok := rec[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func tagsField(rec map[string]json.RawMessage) []string {
	var tags []string
	if raw, ok := rec["tags"]; ok {
		_ = json.Unmarshal(raw, &tags)
	}
	if tags == nil {
		return []string{}
	}
	return tags
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
