package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"moviematcher/models"
	"moviematcher/services/streaming"
)

// movieSearcher runs a discover query against the streaming provider.
type movieSearcher interface {
	Search(ctx context.Context, genres, platforms []string) ([]byte, error)
}

// MovieHandler serves the merged-preference movie search.
type MovieHandler struct {
	search movieSearcher
}

// NewMovieHandler constructs a MovieHandler.
func NewMovieHandler(search movieSearcher) *MovieHandler {
	return &MovieHandler{search: search}
}

// SearchMovies handles POST /api/movies/search with a JSON body of genres
// and platforms.
func (h *MovieHandler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	var req models.MovieSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.runSearch(w, r, req.Genres, req.Platforms)
}

// SearchMoviesQuery handles GET /api/movies/search?genres=a,b&platforms=x,y.
func (h *MovieHandler) SearchMoviesQuery(w http.ResponseWriter, r *http.Request) {
	genres := splitParam(r.URL.Query().Get("genres"))
	platforms := splitParam(r.URL.Query().Get("platforms"))
	h.runSearch(w, r, genres, platforms)
}

func (h *MovieHandler) runSearch(w http.ResponseWriter, r *http.Request, genres, platforms []string) {
	log.Printf("[movies] search request genres=%v platforms=%v", genres, platforms)

	body, err := h.search.Search(r.Context(), genres, platforms)
	if err != nil {
		if streaming.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[movies] search failed: %v", err)
		writeError(w, http.StatusBadGateway, "error fetching movies")
		return
	}

	if emptySearchBody(body) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// emptySearchBody reports whether the provider returned no shows at all.
func emptySearchBody(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "{}" {
		return true
	}
	var envelope struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false
	}
	return envelope.Results != nil && len(envelope.Results) == 0
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
