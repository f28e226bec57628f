package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/raido/internal/libraryservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// maxUpload bounds import and repair uploads; <= 0 means DefaultMaxUploadBytes.
func NewRouter(svc *libraryservice.Service, authEnabled bool, token string, sseHandler http.Handler, maxUpload int64) chi.Router {
	h := NewHandler(svc, maxUpload)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Import and maintenance.
	r.Post("/import", h.Import)
	r.Post("/repair", h.Repair)
	r.Post("/folders/dedupe", h.Dedupe)
	r.Get("/report", h.Report)

	// Display listing.
	r.Get("/data", h.Data)

	// Bookmarks.
	r.Post("/bookmarks", h.CreateBookmark)
	r.Put("/bookmarks/{id}", h.UpdateBookmark)
	r.Delete("/bookmarks/{id}", h.DeleteBookmark)

	// Folders.
	r.Post("/folders", h.CreateFolder)
	r.Put("/folders/{id}", h.UpdateFolder)
	r.Delete("/folders/{id}", h.DeleteFolder)

	// Uncategorized bookmarks.
	r.Get("/uncategorized", h.ListUncategorized)
	r.Delete("/uncategorized", h.DeleteUncategorized)

	// Search.
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
