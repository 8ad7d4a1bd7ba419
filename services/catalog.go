package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/oliwiasala/movie-list/config"
	"github.com/oliwiasala/movie-list/metrics"
)

const catalogBreakerName = "tmdb"

// Catalog is the read-only view of the external movie database.
type Catalog interface {
	SearchByTitle(ctx context.Context, title string) ([]CandidateSummary, error)
	FetchByID(ctx context.Context, externalID int64) (*MovieDetails, error)
}

// CandidateSummary is one search hit, passed through to the selection page.
type CandidateSummary struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

// MovieDetails is the subset of the TMDB movie resource used on import.
type MovieDetails struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
}

type tmdbSearchResponse struct {
	Page    int                `json:"page"`
	Results []CandidateSummary `json:"results"`
}

type tmdbDetailsResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	PosterPath  *string `json:"poster_path"`
}

// CatalogClient talks to the TMDB v3 API. Every failure is reported as
// ErrCatalogUnavailable; there are no retries.
type CatalogClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	cb      *gobreaker.CircuitBreaker[[]byte]
	log     *slog.Logger
}

func NewCatalogClient(cfg *config.Config, logger *slog.Logger) *CatalogClient {
	log := logger.With("component", "catalog")

	metrics.CircuitBreakerState.WithLabelValues(catalogBreakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        catalogBreakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A user abandoning the page or asking for an id TMDB does not
			// know says nothing about TMDB's health
			return err == nil || errors.Is(err, context.Canceled) || isClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &CatalogClient{
		client: &http.Client{
			Timeout: cfg.TMDBTimeout,
		},
		baseURL: strings.TrimRight(cfg.TMDBBaseURL, "/"),
		apiKey:  cfg.TMDBAPIKey,
		cb:      cb,
		log:     log,
	}
}

// SearchByTitle runs TMDB's /search/movie and returns the raw candidates.
func (c *CatalogClient) SearchByTitle(ctx context.Context, title string) ([]CandidateSummary, error) {
	body, err := c.get(ctx, "search", "/search/movie", map[string]string{"query": title})
	if err != nil {
		return nil, err
	}

	var resp tmdbSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode search response: %v", ErrCatalogUnavailable, err)
	}
	if resp.Results == nil {
		resp.Results = []CandidateSummary{}
	}
	return resp.Results, nil
}

// FetchByID loads full details for a TMDB movie id.
func (c *CatalogClient) FetchByID(ctx context.Context, externalID int64) (*MovieDetails, error) {
	path := "/movie/" + strconv.FormatInt(externalID, 10)
	body, err := c.get(ctx, "details", path, nil)
	if err != nil {
		return nil, err
	}

	var resp tmdbDetailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode movie %d: %v", ErrCatalogUnavailable, externalID, err)
	}

	details := &MovieDetails{
		ID:          resp.ID,
		Title:       resp.Title,
		ReleaseDate: resp.ReleaseDate,
		Overview:    resp.Overview,
	}
	if resp.PosterPath != nil {
		details.PosterPath = *resp.PosterPath
	}
	return details, nil
}

func (c *CatalogClient) get(ctx context.Context, endpoint, path string, params map[string]string) ([]byte, error) {
	if c.apiKey == "" {
		metrics.CatalogRequests.WithLabelValues(endpoint, "rejected").Inc()
		return nil, fmt.Errorf("%w: api key not configured", ErrCatalogUnavailable)
	}

	query := map[string]string{"api_key": c.apiKey}
	for k, v := range params {
		query[k] = v
	}
	apiURL := buildQueryURL(c.baseURL+path, query)

	start := time.Now()
	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.doRequest(ctx, apiURL)
	})
	metrics.CatalogRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		result := "failure"
		switch {
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			result = "rejected"
		case isClientError(err):
			result = "client_error"
		}
		metrics.CatalogRequests.WithLabelValues(endpoint, result).Inc()
		c.log.Error("catalog request failed", "endpoint", endpoint, "path", path, "error", err)
		if errors.Is(err, ErrCatalogUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	metrics.CatalogRequests.WithLabelValues(endpoint, "success").Inc()
	return body, nil
}

func (c *CatalogClient) doRequest(ctx context.Context, apiURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// url.Error embeds the full URL, api key included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// StatusError is a non-200 answer from the catalog. It unwraps to
// ErrCatalogUnavailable.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: catalog returned status %d", ErrCatalogUnavailable, e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrCatalogUnavailable
}

// isClientError reports a 4xx answer other than rate limiting. Those are
// about the request, not the catalog's availability.
func isClientError(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.Code >= 400 && statusErr.Code < 500 && statusErr.Code != http.StatusTooManyRequests
}

// buildQueryURL builds a URL with query parameters
func buildQueryURL(baseURL string, params map[string]string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
