package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubGenreCache struct {
	size int
	err  error
}

func (s *stubGenreCache) Refresh(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	s.size = 12
	return nil
}

func (s *stubGenreCache) Size() int { return s.size }

func TestRefreshGenres(t *testing.T) {
	h := NewGenreHandler(&stubGenreCache{})

	rec := httptest.NewRecorder()
	h.RefreshGenres(rec, httptest.NewRequest(http.MethodPost, "/api/admin/genres/refresh", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "12") {
		t.Fatalf("expected genre count in body, got %s", rec.Body.String())
	}
}

func TestRefreshGenresFailure(t *testing.T) {
	h := NewGenreHandler(&stubGenreCache{err: errors.New("provider down")})

	rec := httptest.NewRecorder()
	h.RefreshGenres(rec, httptest.NewRequest(http.MethodPost, "/api/admin/genres/refresh", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestHealthReportsCacheState(t *testing.T) {
	h := NewGenreHandler(&stubGenreCache{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"genreCache":"empty"`) {
		t.Fatalf("expected empty cache state, got %s", rec.Body.String())
	}

	h = NewGenreHandler(&stubGenreCache{size: 12})
	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if !strings.Contains(rec.Body.String(), `"genreCache":"ok"`) {
		t.Fatalf("expected ok cache state, got %s", rec.Body.String())
	}
}
