package mcpserver

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const maxPayloadSize = 50 << 20 // 50 MB

// acceptedMIME lists the media types accepted in data: URIs. An empty
// media type is allowed and treated as text.
var acceptedMIME = map[string]bool{
	"":                 true,
	"text/html":        true,
	"text/plain":       true,
	"application/json": true,
}

// decodePayload returns the raw export bytes for a tool argument that is
// either the file content itself or a base64 data: URI.
func decodePayload(arg string) ([]byte, error) {
	var data []byte
	if strings.HasPrefix(arg, "data:") {
		var err error
		if data, err = decodeDataURI(arg); err != nil {
			return nil, err
		}
	} else {
		data = []byte(arg)
	}
	if len(data) > maxPayloadSize {
		return nil, fmt.Errorf("payload too large: %d bytes (max %d)", len(data), maxPayloadSize)
	}
	return data, nil
}

// decodeDataURI parses a data:[<mediatype>];base64,<data> URI.
func decodeDataURI(uri string) ([]byte, error) {
	rest := strings.TrimPrefix(uri, "data:")
	commaIdx := strings.Index(rest, ",")
	if commaIdx < 0 {
		return nil, fmt.Errorf("invalid data URI: missing comma separator")
	}

	meta := rest[:commaIdx]
	encoded := rest[commaIdx+1:]

	if !strings.Contains(meta, ";base64") {
		return nil, fmt.Errorf("only base64 data URIs are supported")
	}

	mime := strings.Split(strings.TrimSuffix(meta, ";base64"), ";")[0]
	if !acceptedMIME[strings.ToLower(mime)] {
		return nil, fmt.Errorf("unsupported MIME type in data URI: %s", mime)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data: %w", err)
		}
	}
	return data, nil
}
