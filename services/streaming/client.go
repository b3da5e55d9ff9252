package streaming

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"moviematcher/models"
	"moviematcher/utils"
)

// country scopes every provider query to one region. The streaming options
// block in the response is keyed by the same value.
const country = "us"

// yearTolerance is the maximum difference between the recommender's release
// year and the provider's before a title search hit is considered a
// different movie and discarded.
const yearTolerance = 1

// Client talks to the streaming-availability provider. All lookups are
// best-effort: Availability never returns an error, it degrades to the empty
// value instead.
type Client struct {
	httpClient *http.Client
	apiKey     string
	apiHost    string
	baseURL    string
}

// NewClient creates a streaming-availability client. An empty apiKey disables
// the integration; lookups then short-circuit to the empty value.
func NewClient(apiKey, apiHost, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		apiHost:    apiHost,
		baseURL:    baseURL,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// setProviderHeaders adds the required auth headers to a request.
func (c *Client) setProviderHeaders(req *http.Request) {
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)
}

// searchResponse is the envelope of /shows/search/title.
type searchResponse struct {
	Results []showResult `json:"results"`
}

// showResult is one search hit. PosterURLs is decoded loosely because the
// provider sometimes emits non-string values there.
type showResult struct {
	Title            string                       `json:"title"`
	Overview         string                       `json:"overview"`
	Year             int                          `json:"year"`
	IMDBID           string                       `json:"imdbId"`
	PosterURLs       map[string]any               `json:"posterURLs"`
	StreamingOptions map[string][]streamingOption `json:"streamingOptions"`
	Genres           []genreRef                   `json:"genres"`
}

type streamingOption struct {
	Service struct {
		Name string `json:"name"`
	} `json:"service"`
}

type genreRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Genre is one entry of the provider's genre catalog.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FetchGenres retrieves the provider's full genre catalog.
func (c *Client) FetchGenres(ctx context.Context) ([]Genre, error) {
	u := fmt.Sprintf("%s/genres?output_language=en", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setProviderHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("genres request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("genres request failed: %s - %s", resp.Status, string(body))
	}

	var genres []Genre
	if err := json.NewDecoder(resp.Body).Decode(&genres); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}
	return genres, nil
}

// Availability looks up streaming metadata for a title. year, when non-zero,
// guards against same-title collisions: a hit whose release year is too far
// off is treated as a miss. Every failure mode degrades to the empty value.
func (c *Client) Availability(ctx context.Context, title string, year int) models.StreamingAvailability {
	if !c.Enabled() {
		return emptyAvailability()
	}

	result, err := c.searchTitle(ctx, title)
	if err != nil {
		log.Printf("[streaming] lookup failed for %q: %v", title, err)
		return emptyAvailability()
	}
	if result == nil {
		return emptyAvailability()
	}
	if !yearMatches(year, result.Year) {
		log.Printf("[streaming] discarding hit for %q: year %d too far from expected %d", title, result.Year, year)
		return emptyAvailability()
	}

	return models.StreamingAvailability{
		PosterURL:   posterURL(result.PosterURLs),
		Platforms:   platformNames(result.StreamingOptions[country]),
		ReleaseYear: positiveYear(result.Year),
		IMDBID:      result.IMDBID,
		Genres:      genreNames(result.Genres),
	}
}

// searchTitle runs the title search and returns the first hit, or nil when
// the results array is empty.
func (c *Client) searchTitle(ctx context.Context, title string) (*showResult, error) {
	params := url.Values{}
	params.Set("title", title)
	params.Set("country", country)
	params.Set("show_type", "movie")

	u := fmt.Sprintf("%s/shows/search/title?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setProviderHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search failed: %s - %s", resp.Status, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if len(parsed.Results) == 0 {
		return nil, nil
	}
	return &parsed.Results[0], nil
}

func emptyAvailability() models.StreamingAvailability {
	return models.StreamingAvailability{
		Platforms: []string{},
		Genres:    []string{},
	}
}

// posterURL extracts posterURLs.original when it is a non-empty string.
// Providers occasionally ship URLs with raw spaces, so the value is
// re-encoded before use.
func posterURL(posters map[string]any) string {
	raw, ok := posters["original"].(string)
	if !ok || raw == "" {
		return ""
	}
	encoded, err := utils.EncodeURLWithSpaces(raw)
	if err != nil {
		return raw
	}
	return encoded
}

// platformNames collects service names deduplicated in first-seen order.
func platformNames(options []streamingOption) []string {
	names := []string{}
	seen := map[string]bool{}
	for _, opt := range options {
		name := opt.Service.Name
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// genreNames collects genre names, skipping empty entries.
func genreNames(genres []genreRef) []string {
	names := []string{}
	for _, g := range genres {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return names
}

// positiveYear treats non-positive years as absent.
func positiveYear(year int) int {
	if year > 0 {
		return year
	}
	return 0
}

// yearMatches accepts a hit when either year is unknown or the two are
// within yearTolerance of each other.
func yearMatches(want, got int) bool {
	if want <= 0 || got <= 0 {
		return true
	}
	diff := want - got
	if diff < 0 {
		diff = -diff
	}
	return diff <= yearTolerance
}
