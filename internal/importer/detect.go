package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/starford/raido/internal/apperr"
)

// Path identifies which import branch handled a payload.
type Path string

const (
	PathStructured Path = "structured"
	PathMarkup     Path = "markup"
)

// decodeRecords reports whether raw is a non-empty JSON array. Elements are
// kept raw so that one malformed record cannot reject the whole list.
func decodeRecords(raw []byte) ([]json.RawMessage, bool) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
		return nil, false
	}
	return list, true
}

// parseMarkup decodes raw as an HTML document. Payloads that are not text at
// all are rejected before the tolerant HTML parser gets to see them.
func parseMarkup(raw []byte) (*html.Node, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty document", apperr.ErrUnparseableImport)
	}
	if bytes.IndexByte(raw, 0) >= 0 {
		return nil, fmt.Errorf("%w: binary content", apperr.ErrUnparseableImport)
	}

	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		// Legacy exports declare their encoding in a <meta> tag.
		cr, err := charset.NewReader(r, "text/html")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperr.ErrUnparseableImport, err)
		}
		r = cr
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrUnparseableImport, err)
	}
	return doc, nil
}
