package streaming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// ValidationError rejects a request before any network call is made.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// errRateLimited marks a 429 from the provider. Only these responses are
// retried; everything else surfaces immediately.
var errRateLimited = errors.New("provider rate limited")

const (
	searchRetryAttempts = 3
	searchRetryDelay    = time.Second
)

// titleSeed satisfies the provider's mandatory title parameter on the
// discover query. Filtering happens through the genres and catalogs params.
const titleSeed = "inception"

// MovieSearch builds and executes discover queries against the streaming
// provider, resolving genre names through the shared cache.
type MovieSearch struct {
	client *Client
	genres *GenreCache
}

// NewMovieSearch wires the discover pipeline.
func NewMovieSearch(client *Client, genres *GenreCache) *MovieSearch {
	return &MovieSearch{client: client, genres: genres}
}

// BuildQuery validates the request and assembles the provider query
// parameters. Genre names resolve through the cache; unresolved names are
// dropped, but a request where nothing resolves is rejected so we never issue
// an unfiltered query.
func (s *MovieSearch) BuildQuery(genres, platforms []string) (url.Values, error) {
	if len(genres) == 0 {
		return nil, newValidationError("genres list cannot be empty")
	}
	if len(platforms) == 0 {
		return nil, newValidationError("platforms list cannot be empty")
	}

	genreIDs := s.genres.ResolveAll(genres)
	log.Printf("[movies] resolved genres %v to ids %v", genres, genreIDs)
	if len(genreIDs) == 0 {
		return nil, newValidationError("no valid genres found for %v", genres)
	}

	catalogs := make([]string, len(platforms))
	for i, p := range platforms {
		catalogs[i] = strings.ToLower(p)
	}

	params := url.Values{}
	params.Set("title", titleSeed)
	params.Set("country", country)
	params.Set("series_granularity", "show")
	params.Set("show_type", "movie")
	params.Set("output_language", "en")
	params.Set("genres", strings.Join(genreIDs, ","))
	params.Set("catalogs", strings.Join(catalogs, ","))
	return params, nil
}

// Search runs the discover query and returns the provider's raw response
// body. Rate-limit responses are retried with exponential backoff starting at
// one second, capped at three attempts.
func (s *MovieSearch) Search(ctx context.Context, genres, platforms []string) ([]byte, error) {
	params, err := s.BuildQuery(genres, platforms)
	if err != nil {
		return nil, err
	}

	body, err := retry.DoWithData(
		func() ([]byte, error) {
			return s.doSearch(ctx, params)
		},
		retry.Context(ctx),
		retry.Attempts(searchRetryAttempts),
		retry.Delay(searchRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errRateLimited)
		}),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (s *MovieSearch) doSearch(ctx context.Context, params url.Values) ([]byte, error) {
	u := fmt.Sprintf("%s/shows/search/title?%s", s.client.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.client.setProviderHeaders(req)

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discover request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("discover query: %w", errRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("discover query failed: %s - %s", resp.Status, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read discover response: %w", err)
	}
	return body, nil
}
