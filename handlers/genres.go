package handlers

import (
	"context"
	"log"
	"net/http"
)

// genreCache is the slice of the streaming genre cache the handlers need.
type genreCache interface {
	Refresh(ctx context.Context) error
	Size() int
}

// GenreHandler exposes manual genre-cache refresh and cache state.
type GenreHandler struct {
	cache genreCache
}

// NewGenreHandler constructs a GenreHandler.
func NewGenreHandler(cache genreCache) *GenreHandler {
	return &GenreHandler{cache: cache}
}

// RefreshGenres handles POST /api/admin/genres/refresh. A failed refresh
// leaves the previous cache contents serving.
func (h *GenreHandler) RefreshGenres(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Refresh(r.Context()); err != nil {
		log.Printf("[genres] manual refresh failed: %v", err)
		writeError(w, http.StatusBadGateway, "genre refresh failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"genres": h.cache.Size(),
	})
}

// Health handles GET /health and reports whether the genre cache has been
// populated since startup.
func (h *GenreHandler) Health(w http.ResponseWriter, r *http.Request) {
	cacheState := "ok"
	if h.cache.Size() == 0 {
		cacheState = "empty"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"genreCache": cacheState,
	})
}
