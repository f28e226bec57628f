package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/libraryservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc       *libraryservice.Service
	maxUpload int64
}

// NewHandler creates a new Handler.
func NewHandler(svc *libraryservice.Service, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &Handler{svc: svc, maxUpload: maxUpload}
}

// decodeBody reads a JSON body into v and runs its validation rules.
func decodeBody(w http.ResponseWriter, r *http.Request, v validation.Validatable) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body", apperr.ErrInvalid)
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrInvalid, err)
	}
	return nil
}

// Import handles POST /api/import.
//
//	@Summary		Import a browser bookmark export or a JSON bookmark array
//	@Tags			import
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Export file"
//	@Success		200		{object}	ImportResponse
//	@Failure		400		{object}	errResponse
//	@Failure		500		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := readUpload(w, r, h.maxUpload)
	if err != nil {
		writeError(w, "import", err)
		return
	}
	sum, err := h.svc.Import(r.Context(), raw)
	if err != nil {
		writeError(w, "import", err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(sum.Version))
	writeJSON(w, http.StatusOK, ImportResponse{
		Status:         "success",
		Count:          sum.Count,
		CreatedFolders: sum.CreatedFolders,
		Format:         sum.Format,
	})
}

// Repair handles POST /api/repair.
//
//	@Summary		Re-file existing bookmarks into the folder tree of a browser export
//	@Tags			import
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Export file"
//	@Success		200		{object}	RepairResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/repair [post]
func (h *Handler) Repair(w http.ResponseWriter, r *http.Request) {
	raw, err := readUpload(w, r, h.maxUpload)
	if err != nil {
		writeError(w, "repair", err)
		return
	}
	report, err := h.svc.Repair(r.Context(), raw)
	if err != nil {
		writeError(w, "repair", err)
		return
	}
	writeJSON(w, http.StatusOK, RepairResponse{Status: "success", RemapReport: *report})
}

// Dedupe handles POST /api/folders/dedupe.
//
//	@Summary		Merge folders whose names collide
//	@Tags			folders
//	@Produce		json
//	@Success		200	{object}	DedupeResponse
//	@Failure		500	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders/dedupe [post]
func (h *Handler) Dedupe(w http.ResponseWriter, r *http.Request) {
	merged, err := h.svc.Dedupe(r.Context())
	if err != nil {
		writeError(w, "dedupe", err)
		return
	}
	writeJSON(w, http.StatusOK, DedupeResponse{Status: "success", Merged: merged})
}

// Report handles GET /api/report.
//
//	@Summary		Report uncategorized and dangling bookmarks
//	@Tags			maintenance
//	@Produce		json
//	@Success		200	{object}	repair.OrphanReport
//	@Security		BearerAuth
//	@Router			/report [get]
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Report(r.Context())
	if err != nil {
		writeError(w, "report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Data handles GET /api/data.
//
//	@Summary		Get every bookmark and folder in display order
//	@Tags			library
//	@Produce		json
//	@Success		200	{object}	DataResponse
//	@Security		BearerAuth
//	@Router			/data [get]
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	lib, err := h.svc.Data(r.Context())
	if err != nil {
		writeError(w, "get data", err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(lib.Version))
	writeJSON(w, http.StatusOK, DataResponse{
		Status:    "success",
		Bookmarks: lib.Bookmarks,
		Folders:   lib.Folders,
		Version:   lib.Version,
	})
}

// CreateBookmark handles POST /api/bookmarks.
//
//	@Summary		Add a bookmark
//	@Tags			bookmarks
//	@Accept			json
//	@Produce		json
//	@Param			If-Match	header	string					false	"Library version for optimistic concurrency"
//	@Param			body		body	CreateBookmarkRequest	true	"Bookmark to add"
//	@Success		201		{object}	BookmarkResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/bookmarks [post]
func (h *Handler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	var req CreateBookmarkRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "create bookmark", err)
		return
	}
	b, err := h.svc.AddBookmark(r.Context(), ifMatch(r), libraryservice.NewBookmark{
		Title:     req.Title,
		URL:       req.URL,
		FolderID:  req.FolderID,
		Tags:      req.Tags,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		writeError(w, "create bookmark", err)
		return
	}
	writeJSON(w, http.StatusCreated, BookmarkResponse{Status: "success", Data: *b})
}

// UpdateBookmark handles PUT /api/bookmarks/{id}.
//
//	@Summary		Update a bookmark; omitted fields are kept
//	@Tags			bookmarks
//	@Accept			json
//	@Produce		json
//	@Param			id			path	string					true	"Bookmark id"
//	@Param			If-Match	header	string					false	"Library version for optimistic concurrency"
//	@Param			body		body	UpdateBookmarkRequest	true	"Fields to change"
//	@Success		200		{object}	BookmarkResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/bookmarks/{id} [put]
func (h *Handler) UpdateBookmark(w http.ResponseWriter, r *http.Request) {
	var req UpdateBookmarkRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "update bookmark", err)
		return
	}
	b, err := h.svc.UpdateBookmark(r.Context(), ifMatch(r), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		writeError(w, "update bookmark", err)
		return
	}
	writeJSON(w, http.StatusOK, BookmarkResponse{Status: "success", Data: *b})
}

// DeleteBookmark handles DELETE /api/bookmarks/{id}.
//
//	@Summary		Delete a bookmark
//	@Tags			bookmarks
//	@Produce		json
//	@Param			id			path	string	true	"Bookmark id"
//	@Param			If-Match	header	string	false	"Library version for optimistic concurrency"
//	@Success		200		{object}	StatusResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/bookmarks/{id} [delete]
func (h *Handler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBookmark(r.Context(), ifMatch(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete bookmark", err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}

// CreateFolder handles POST /api/folders.
//
//	@Summary		Add a folder
//	@Tags			folders
//	@Accept			json
//	@Produce		json
//	@Param			If-Match	header	string			false	"Library version for optimistic concurrency"
//	@Param			body		body	FolderRequest	true	"Folder to add"
//	@Success		201		{object}	FolderResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders [post]
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "create folder", err)
		return
	}
	in := libraryservice.NewFolder{Name: req.Name, ParentID: req.ParentID, Description: req.Description}
	if req.SortOrder != nil {
		in.SortOrder = *req.SortOrder
	}
	f, err := h.svc.AddFolder(r.Context(), ifMatch(r), in)
	if err != nil {
		writeError(w, "create folder", err)
		return
	}
	writeJSON(w, http.StatusCreated, FolderResponse{Status: "success", Data: *f})
}

// UpdateFolder handles PUT /api/folders/{id}.
//
//	@Summary		Rename, move or describe a folder
//	@Tags			folders
//	@Accept			json
//	@Produce		json
//	@Param			id			path	string			true	"Folder id"
//	@Param			If-Match	header	string			false	"Library version for optimistic concurrency"
//	@Param			body		body	FolderRequest	true	"New folder fields"
//	@Success		200		{object}	FolderResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders/{id} [put]
func (h *Handler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "update folder", err)
		return
	}
	f, err := h.svc.UpdateFolder(r.Context(), ifMatch(r), chi.URLParam(r, "id"), libraryservice.FolderUpdate{
		Name:        req.Name,
		ParentID:    req.ParentID,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		writeError(w, "update folder", err)
		return
	}
	writeJSON(w, http.StatusOK, FolderResponse{Status: "success", Data: *f})
}

// DeleteFolder handles DELETE /api/folders/{id}.
//
//	@Summary		Delete a folder and its subfolders; their bookmarks become uncategorized
//	@Tags			folders
//	@Produce		json
//	@Param			id			path	string	true	"Folder id"
//	@Param			If-Match	header	string	false	"Library version for optimistic concurrency"
//	@Success		200		{object}	FolderDeleteResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders/{id} [delete]
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	del, err := h.svc.DeleteFolder(r.Context(), ifMatch(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "delete folder", err)
		return
	}
	writeJSON(w, http.StatusOK, FolderDeleteResponse{Status: "success", FolderDeletion: *del})
}

// ListUncategorized handles GET /api/uncategorized.
//
//	@Summary		List bookmarks without a folder
//	@Tags			maintenance
//	@Produce		json
//	@Param			limit	query		int	false	"Sample size"
//	@Success		200		{object}	UncategorizedResponse
//	@Security		BearerAuth
//	@Router			/uncategorized [get]
func (h *Handler) ListUncategorized(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	unc, err := h.svc.ListUncategorized(r.Context(), limit)
	if err != nil {
		writeError(w, "list uncategorized", err)
		return
	}
	writeJSON(w, http.StatusOK, UncategorizedResponse{Status: "success", Uncategorized: *unc})
}

// DeleteUncategorized handles DELETE /api/uncategorized.
//
//	@Summary		Delete every bookmark without a folder
//	@Tags			maintenance
//	@Produce		json
//	@Param			If-Match	header	string	false	"Library version for optimistic concurrency"
//	@Success		200		{object}	DeleteUncategorizedResponse
//	@Security		BearerAuth
//	@Router			/uncategorized [delete]
func (h *Handler) DeleteUncategorized(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.DeleteUncategorized(r.Context(), ifMatch(r))
	if err != nil {
		writeError(w, "delete uncategorized", err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteUncategorizedResponse{Status: "success", Deleted: n})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across bookmarks
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
