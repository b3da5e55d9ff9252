package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"moviematcher/models"
	"moviematcher/services/recommend"
)

type stubFetcher struct {
	recs []models.BasicRecommendation
	err  error
}

func (s *stubFetcher) Recommendations(ctx context.Context, title string) ([]models.BasicRecommendation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.recs, nil
}

type stubEnricher struct{}

func (s *stubEnricher) Enrich(ctx context.Context, basics []models.BasicRecommendation) []models.EnrichedRecommendation {
	enriched := make([]models.EnrichedRecommendation, len(basics))
	for i, b := range basics {
		enriched[i] = models.EnrichedRecommendation{
			BasicRecommendation:   b,
			StreamingAvailability: models.StreamingAvailability{Platforms: []string{"Netflix"}, Genres: []string{}},
		}
	}
	return enriched
}

func TestGetRecommendationsMissingTitle(t *testing.T) {
	h := NewRecommendationHandler(&stubFetcher{}, &stubEnricher{})

	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetRecommendationsNotFound(t *testing.T) {
	h := NewRecommendationHandler(&stubFetcher{err: &recommend.NotFoundError{Message: "unknown title"}}, &stubEnricher{})

	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations?title=Nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("expected error message in body")
	}
}

func TestGetRecommendationsTransportFailure(t *testing.T) {
	h := NewRecommendationHandler(&stubFetcher{err: errors.New("connection refused")}, &stubEnricher{})

	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations?title=Inception", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestGetRecommendationsSuccess(t *testing.T) {
	vote := 8.1
	h := NewRecommendationHandler(&stubFetcher{recs: []models.BasicRecommendation{
		{Title: "Shutter Island", VoteAverage: &vote},
	}}, &stubEnricher{})

	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations?title=Inception", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body models.RecommendationResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Recommendations) != 1 || body.Recommendations[0].Title != "Shutter Island" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestGetEnhancedRecommendations(t *testing.T) {
	h := NewRecommendationHandler(&stubFetcher{recs: []models.BasicRecommendation{
		{Title: "Shutter Island"},
		{Title: "Memento"},
	}}, &stubEnricher{})

	rec := httptest.NewRecorder()
	h.GetEnhancedRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations/enhanced?title=Inception", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body models.EnrichedRecommendationResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Recommendations) != 2 {
		t.Fatalf("expected 2 enriched recommendations, got %d", len(body.Recommendations))
	}
	if body.Recommendations[0].Platforms[0] != "Netflix" {
		t.Fatalf("expected enrichment applied, got %+v", body.Recommendations[0])
	}
}

func TestRecommendationsHealth(t *testing.T) {
	h := NewRecommendationHandler(&stubFetcher{}, &stubEnricher{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
