package recommend

import (
	"context"
	"fmt"
	"testing"
	"time"

	"moviematcher/models"
)

type stubLookup struct {
	fn func(ctx context.Context, title string, year int) models.StreamingAvailability
}

func (s *stubLookup) Availability(ctx context.Context, title string, year int) models.StreamingAvailability {
	return s.fn(ctx, title, year)
}

func basicsOfLength(n int) []models.BasicRecommendation {
	basics := make([]models.BasicRecommendation, n)
	for i := range basics {
		basics[i] = models.BasicRecommendation{Title: fmt.Sprintf("Movie %d", i)}
	}
	return basics
}

func TestEnrichPreservesLengthAndOrder(t *testing.T) {
	lookup := &stubLookup{fn: func(ctx context.Context, title string, year int) models.StreamingAvailability {
		return models.StreamingAvailability{
			IMDBID:    "id-" + title,
			Platforms: []string{"Netflix"},
			Genres:    []string{},
		}
	}}
	enricher := NewEnricher(lookup, 4)

	basics := basicsOfLength(17)
	enriched := enricher.Enrich(context.Background(), basics)

	if len(enriched) != len(basics) {
		t.Fatalf("expected %d results, got %d", len(basics), len(enriched))
	}
	for i, rec := range enriched {
		if rec.Title != basics[i].Title {
			t.Fatalf("order broken at %d: got %q want %q", i, rec.Title, basics[i].Title)
		}
		if rec.IMDBID != "id-"+basics[i].Title {
			t.Fatalf("wrong enrichment at %d: %q", i, rec.IMDBID)
		}
	}
}

func TestEnrichEmptyInput(t *testing.T) {
	enricher := NewEnricher(&stubLookup{fn: func(ctx context.Context, title string, year int) models.StreamingAvailability {
		t.Fatal("lookup should not run for empty input")
		return models.StreamingAvailability{}
	}}, 4)

	enriched := enricher.Enrich(context.Background(), nil)
	if len(enriched) != 0 {
		t.Fatalf("expected empty output, got %d", len(enriched))
	}
}

func TestEnrichSurvivesPanickingLookup(t *testing.T) {
	lookup := &stubLookup{fn: func(ctx context.Context, title string, year int) models.StreamingAvailability {
		if title == "Movie 2" {
			panic("lookup exploded")
		}
		return models.StreamingAvailability{IMDBID: "ok", Platforms: []string{}, Genres: []string{}}
	}}
	enricher := NewEnricher(lookup, 2)

	basics := basicsOfLength(5)
	enriched := enricher.Enrich(context.Background(), basics)

	if len(enriched) != 5 {
		t.Fatalf("expected 5 results, got %d", len(enriched))
	}
	for i, rec := range enriched {
		if rec.Title != basics[i].Title {
			t.Fatalf("order broken at %d", i)
		}
	}

	failed := enriched[2]
	if failed.IMDBID != "" || len(failed.Platforms) != 0 {
		t.Fatalf("expected empty enrichment for panicked task, got %+v", failed.StreamingAvailability)
	}
	if failed.Platforms == nil || failed.Genres == nil {
		t.Fatal("expected non-nil empty slices on degraded record")
	}

	if enriched[1].IMDBID != "ok" {
		t.Fatal("healthy tasks must still enrich")
	}
}

func TestEnrichAppliesPerTaskTimeout(t *testing.T) {
	lookup := &stubLookup{fn: func(ctx context.Context, title string, year int) models.StreamingAvailability {
		select {
		case <-ctx.Done():
			return models.StreamingAvailability{Platforms: []string{}, Genres: []string{}}
		case <-time.After(5 * time.Second):
			return models.StreamingAvailability{IMDBID: "too-late", Platforms: []string{}, Genres: []string{}}
		}
	}}
	enricher := NewEnricher(lookup, 2)
	enricher.lookupTimeout = 20 * time.Millisecond

	start := time.Now()
	enriched := enricher.Enrich(context.Background(), basicsOfLength(3))
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("enrichment blocked on slow lookups: %v", elapsed)
	}
	for _, rec := range enriched {
		if rec.IMDBID == "too-late" {
			t.Fatal("timeout not applied to lookup")
		}
	}
}

func TestEnrichPassesYearToLookup(t *testing.T) {
	var gotYear int
	lookup := &stubLookup{fn: func(ctx context.Context, title string, year int) models.StreamingAvailability {
		gotYear = year
		return models.StreamingAvailability{Platforms: []string{}, Genres: []string{}}
	}}
	enricher := NewEnricher(lookup, 1)

	year := 2010
	enricher.Enrich(context.Background(), []models.BasicRecommendation{{Title: "Inception", Year: &year}})
	if gotYear != 2010 {
		t.Fatalf("expected year 2010 passed to lookup, got %d", gotYear)
	}
}
