package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"moviematcher/internal/auth"
	"moviematcher/models"
	"moviematcher/services/recommend"
)

// recommendationFetcher returns candidate recommendations for a title.
type recommendationFetcher interface {
	Recommendations(ctx context.Context, title string) ([]models.BasicRecommendation, error)
}

// recommendationEnricher attaches streaming data to a recommendation batch.
type recommendationEnricher interface {
	Enrich(ctx context.Context, basics []models.BasicRecommendation) []models.EnrichedRecommendation
}

// RecommendationHandler serves basic and enriched recommendation requests.
type RecommendationHandler struct {
	fetcher  recommendationFetcher
	enricher recommendationEnricher
}

// NewRecommendationHandler constructs a RecommendationHandler.
func NewRecommendationHandler(fetcher recommendationFetcher, enricher recommendationEnricher) *RecommendationHandler {
	return &RecommendationHandler{fetcher: fetcher, enricher: enricher}
}

// GetRecommendations handles GET /api/recommendations?title=.
func (h *RecommendationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	title, ok := h.requestTitle(w, r)
	if !ok {
		return
	}

	basics, err := h.fetcher.Recommendations(r.Context(), title)
	if err != nil {
		h.writeFetchError(w, title, err)
		return
	}

	writeJSON(w, http.StatusOK, models.RecommendationResponse{Recommendations: basics})
}

// GetEnhancedRecommendations handles GET /api/recommendations/enhanced?title=.
// Recommendations that cannot be enriched come back with empty streaming
// fields rather than failing the request.
func (h *RecommendationHandler) GetEnhancedRecommendations(w http.ResponseWriter, r *http.Request) {
	title, ok := h.requestTitle(w, r)
	if !ok {
		return
	}

	basics, err := h.fetcher.Recommendations(r.Context(), title)
	if err != nil {
		h.writeFetchError(w, title, err)
		return
	}

	enriched := h.enricher.Enrich(r.Context(), basics)
	writeJSON(w, http.StatusOK, models.EnrichedRecommendationResponse{Recommendations: enriched})
}

// Health handles GET /api/recommendations/health.
func (h *RecommendationHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "UP",
		"service": "recommendation service connection available",
	})
}

func (h *RecommendationHandler) requestTitle(w http.ResponseWriter, r *http.Request) (string, bool) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return "", false
	}
	if user := auth.GetUsername(r); user != "" {
		log.Printf("[recommend] user %s requested recommendations for %q", user, title)
	}
	return title, true
}

func (h *RecommendationHandler) writeFetchError(w http.ResponseWriter, title string, err error) {
	if recommend.IsNotFound(err) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	log.Printf("[recommend] fetch failed for %q: %v", title, err)
	writeError(w, http.StatusBadGateway, "recommendation service unavailable")
}
