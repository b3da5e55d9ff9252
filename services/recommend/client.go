package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"

	"moviematcher/models"
)

// NotFoundError means the recommender explicitly does not know the title.
// It is distinct from transport failures so callers can answer "movie not
// found" instead of a generic error.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("movie not found: %s", e.Message)
}

// IsNotFound reports whether err is the recommender's not-found envelope.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// errRateLimited marks a 429 from the recommender; only these are retried.
var errRateLimited = errors.New("recommender rate limited")

const (
	retryAttempts = 3
	retryDelay    = time.Second
)

// Client calls the recommendation microservice.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a recommender client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
	}
}

// recommendEnvelope is the recommender's response. The service answers with
// either an error message or a recommendations list, never both.
type recommendEnvelope struct {
	Error           *string                      `json:"error"`
	Recommendations []models.BasicRecommendation `json:"recommendations"`
}

// Recommendations fetches candidate recommendations for a title. A missing
// or null recommendations list is an empty result, not an error. Rate-limit
// responses are retried with exponential backoff from one second, at most
// three attempts; any other failure surfaces immediately with its cause.
func (c *Client) Recommendations(ctx context.Context, title string) ([]models.BasicRecommendation, error) {
	return retry.DoWithData(
		func() ([]models.BasicRecommendation, error) {
			return c.fetch(ctx, title)
		},
		retry.Context(ctx),
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errRateLimited)
		}),
	)
}

func (c *Client) fetch(ctx context.Context, title string) ([]models.BasicRecommendation, error) {
	params := url.Values{}
	params.Set("title", title)

	u := fmt.Sprintf("%s/recommend?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommendation service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("recommend %q: %w", title, errRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("recommendation service failed: %s - %s", resp.Status, string(body))
	}

	var envelope recommendEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode recommendation response: %w", err)
	}

	if envelope.Error != nil {
		return nil, &NotFoundError{Message: *envelope.Error}
	}
	if envelope.Recommendations == nil {
		return []models.BasicRecommendation{}, nil
	}
	return envelope.Recommendations, nil
}
