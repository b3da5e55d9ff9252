package recommend

import (
	"context"
	"log"
	"time"

	"github.com/sourcegraph/conc/pool"

	"moviematcher/models"
)

// availabilityLookup is the slice of the streaming client the enricher needs.
type availabilityLookup interface {
	Availability(ctx context.Context, title string, year int) models.StreamingAvailability
}

const defaultLookupTimeout = 12 * time.Second

// Enricher attaches streaming-availability data to basic recommendations by
// fanning out one lookup per recommendation. Individual lookups that fail,
// stall, or panic produce an empty-enrichment record; the batch as a whole
// never fails.
type Enricher struct {
	streaming     availabilityLookup
	maxWorkers    int
	lookupTimeout time.Duration
}

// NewEnricher creates an enricher with bounded parallelism.
func NewEnricher(streaming availabilityLookup, maxWorkers int) *Enricher {
	if maxWorkers <= 0 {
		maxWorkers = 8
	}
	return &Enricher{
		streaming:     streaming,
		maxWorkers:    maxWorkers,
		lookupTimeout: defaultLookupTimeout,
	}
}

// Enrich returns one enriched record per input recommendation, in input
// order, regardless of the completion order of the underlying lookups.
func (e *Enricher) Enrich(ctx context.Context, basics []models.BasicRecommendation) []models.EnrichedRecommendation {
	enriched := make([]models.EnrichedRecommendation, len(basics))
	if len(basics) == 0 {
		return enriched
	}

	workers := pool.New().WithMaxGoroutines(e.maxWorkers)
	for i, basic := range basics {
		i, basic := i, basic
		workers.Go(func() {
			enriched[i] = e.enrichOne(ctx, basic)
		})
	}
	workers.Wait()

	return enriched
}

// enrichOne looks up streaming data for a single recommendation under its
// own timeout. A panic inside the lookup is contained here so one misbehaving
// task cannot take down the batch.
func (e *Enricher) enrichOne(ctx context.Context, basic models.BasicRecommendation) (rec models.EnrichedRecommendation) {
	rec = models.EnrichedRecommendation{
		BasicRecommendation:   basic,
		StreamingAvailability: models.StreamingAvailability{Platforms: []string{}, Genres: []string{}},
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[enrich] lookup panicked for %q: %v", basic.Title, r)
		}
	}()

	lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	year := 0
	if basic.Year != nil {
		year = *basic.Year
	}

	rec.StreamingAvailability = e.streaming.Availability(lookupCtx, basic.Title, year)
	return rec
}
