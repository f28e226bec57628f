package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/starford/raido/internal/apperr"
)

// DefaultMaxUploadBytes bounds multipart uploads when no limit is configured.
const DefaultMaxUploadBytes = 50 << 20 // 50 MB

// readUpload returns the content of the multipart field "file". An empty
// file yields a non-nil empty slice so the importer can tell it apart from
// a missing upload.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: upload exceeds %d bytes", apperr.ErrInvalid, maxBytes)
		}
		return nil, fmt.Errorf("%w: invalid multipart form", apperr.ErrNoUploadedFile)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: missing 'file' field in multipart form", apperr.ErrNoUploadedFile)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrUnreadableUpload, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}
