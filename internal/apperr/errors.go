// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalid       = errors.New("invalid input")
	ErrFolderCycle   = errors.New("folder cannot be moved under itself or its descendants")

	// Import and maintenance failures.
	ErrNoUploadedFile    = errors.New("no uploaded file")
	ErrUnreadableUpload  = errors.New("uploaded file could not be read")
	ErrUnparseableImport = errors.New("import file could not be parsed")
	ErrNothingImported   = errors.New("no importable bookmarks found")
	ErrPersistence       = errors.New("failed to save bookmarks")
)
