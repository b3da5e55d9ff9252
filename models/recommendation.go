package models

// BasicRecommendation is a single candidate returned by the recommendation
// microservice before any streaming enrichment. Numeric fields are pointers
// because the recommender omits them for some titles; a missing value is
// absent, not zero.
type BasicRecommendation struct {
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	Popularity  *float64 `json:"popularity,omitempty"`
	Similarity  *float64 `json:"similarity,omitempty"`
	VoteAverage *float64 `json:"vote_average,omitempty"`
	Year        *int     `json:"year,omitempty"`
}

// StreamingAvailability holds the best-effort metadata attached to a
// recommendation. The zero value is the degraded "nothing found" state and is
// always safe to return in place of an error.
type StreamingAvailability struct {
	PosterURL   string   `json:"posterUrl,omitempty"`
	Platforms   []string `json:"streamingPlatforms"`
	ReleaseYear int      `json:"releaseYear,omitempty"`
	IMDBID      string   `json:"imdbId,omitempty"`
	Genres      []string `json:"genres"`
}

// EnrichedRecommendation combines a basic recommendation with its streaming
// availability data.
type EnrichedRecommendation struct {
	BasicRecommendation
	StreamingAvailability
}

// RecommendationResponse is the envelope returned by the recommendation
// endpoints.
type RecommendationResponse struct {
	Recommendations []BasicRecommendation `json:"recommendations"`
}

// EnrichedRecommendationResponse is the envelope returned by the enhanced
// recommendation endpoint.
type EnrichedRecommendationResponse struct {
	Recommendations []EnrichedRecommendation `json:"recommendations"`
}
