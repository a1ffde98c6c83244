// Package omdb looks up movie metadata in the OMDb API.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/icco/moodmovies/lib/metrics"
	"github.com/icco/moodmovies/models"
)

// ErrNotFound is returned by Lookup when OMDb has no movie for the id.
var ErrNotFound = errors.New("movie not found")

const maxBodySize = 1 << 20

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	cb         *gobreaker.CircuitBreaker[[]byte]
}

// movieResponse is the subset of an OMDb document the cards need.
type movieResponse struct {
	Title      string `json:"Title"`
	Poster     string `json:"Poster"`
	Year       string `json:"Year"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	IMDbRating string `json:"imdbRating"`
	Runtime    string `json:"Runtime"`
	Language   string `json:"Language"`
	IMDbID     string `json:"imdbID"`
	Metascore  string `json:"Metascore"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

func (r *movieResponse) found() bool {
	return r.Response == "True"
}

func NewClient(apiKey, baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
	c.cb = newBreaker("omdb", logger)
	return c
}

// Enrich returns the record for a title (byID false) or an IMDb id (byID true).
// It never fails: lookup problems yield placeholders with the requested title.
func (c *Client) Enrich(ctx context.Context, titleOrID string, byID bool) models.MovieRecord {
	body, err := c.fetch(ctx, queryFor(titleOrID, byID))
	if err != nil {
		c.logger.Warn("Failed to fetch movie details", slog.String("query", titleOrID), slog.Any("error", err))
		metrics.Enrichments.WithLabelValues("error").Inc()
		return models.PlaceholderRecord(titleOrID)
	}

	var resp movieResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Warn("Failed to decode movie details", slog.String("query", titleOrID), slog.Any("error", err))
		metrics.Enrichments.WithLabelValues("error").Inc()
		return models.PlaceholderRecord(titleOrID)
	}

	if !resp.found() {
		c.logger.Debug("Movie not found", slog.String("query", titleOrID), slog.String("reason", resp.Error))
		metrics.Enrichments.WithLabelValues("not_found").Inc()
		return models.PlaceholderRecord(titleOrID)
	}

	metrics.Enrichments.WithLabelValues("found").Inc()
	return resp.record(titleOrID)
}

// Lookup returns the full OMDb document for an IMDb id.
func (c *Client) Lookup(ctx context.Context, imdbID string) (map[string]any, error) {
	body, err := c.fetch(ctx, queryFor(imdbID, true))
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if found, _ := doc["Response"].(string); found != "True" {
		return nil, ErrNotFound
	}
	return doc, nil
}

func queryFor(titleOrID string, byID bool) url.Values {
	q := url.Values{}
	if byID {
		q.Set("i", titleOrID)
	} else {
		q.Set("t", titleOrID)
	}
	q.Set("plot", "full")
	return q
}

func (c *Client) fetch(ctx context.Context, q url.Values) ([]byte, error) {
	q.Set("apikey", c.apiKey)
	reqURL := c.baseURL + "?" + q.Encode()

	return c.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to make request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				c.logger.Error("failed to close response body", "error", err)
			}
		}()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		return body, nil
	})
}

func (r *movieResponse) record(requested string) models.MovieRecord {
	rec := models.MovieRecord{
		Title:     or(r.Title, requested),
		Poster:    or(r.Poster, models.PlaceholderPoster),
		Year:      or(r.Year, models.PlaceholderUnknown),
		Genre:     or(r.Genre, models.PlaceholderUnknown),
		Director:  or(r.Director, models.PlaceholderUnknown),
		Actors:    or(r.Actors, models.PlaceholderUnknown),
		Plot:      or(r.Plot, models.PlaceholderPlot),
		Rating:    or(r.IMDbRating, models.PlaceholderNA),
		Runtime:   or(r.Runtime, models.PlaceholderUnknown),
		Language:  or(r.Language, models.PlaceholderUnknown),
		IMDbID:    strings.TrimSpace(r.IMDbID),
		Metascore: or(r.Metascore, models.PlaceholderNA),
	}
	// OMDb reports a missing poster as "N/A", which is not an image.
	if rec.Poster == models.PlaceholderNA {
		rec.Poster = models.PlaceholderPoster
	}
	return rec
}

func or(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
