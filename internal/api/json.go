package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/raido/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Status  string `json:"status" example:"error" validate:"required"`
	Message string `json:"message" example:"import file could not be parsed" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Status: "error", Message: msg}
}

// statusOf maps a service error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrNoUploadedFile),
		errors.Is(err, apperr.ErrUnparseableImport),
		errors.Is(err, apperr.ErrNothingImported),
		errors.Is(err, apperr.ErrFolderCycle),
		errors.Is(err, apperr.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes the error response for err. Client errors echo the
// error text; server errors are logged and answered with a fixed message.
func writeError(w http.ResponseWriter, op string, err error) {
	status := statusOf(err)
	if status < http.StatusInternalServerError {
		writeJSON(w, status, errorBody(err.Error()))
		return
	}
	slog.Error(op+" failed", slog.String("error", err.Error()))
	msg := "internal error"
	switch {
	case errors.Is(err, apperr.ErrPersistence):
		msg = apperr.ErrPersistence.Error()
	case errors.Is(err, apperr.ErrUnreadableUpload):
		msg = apperr.ErrUnreadableUpload.Error()
	}
	writeJSON(w, status, errorBody(msg))
}
