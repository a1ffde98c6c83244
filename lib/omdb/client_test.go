package omdb

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/icco/moodmovies/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient("secret", srv.URL+"/", srv.Client(), testLogger()), &calls
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestEnrichByTitle(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Inception", r.URL.Query().Get("t"))
		assert.Equal(t, "full", r.URL.Query().Get("plot"))
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		writeJSON(w, map[string]string{
			"Title":      "Inception",
			"Poster":     "https://img.example/inception.jpg",
			"Year":       "2010",
			"Genre":      "Action, Adventure, Sci-Fi",
			"Director":   "Christopher Nolan",
			"Actors":     "Leonardo DiCaprio",
			"Plot":       "A thief who steals corporate secrets.",
			"imdbRating": "8.8",
			"Runtime":    "148 min",
			"Language":   "English",
			"imdbID":     "tt1375666",
			"Metascore":  "74",
			"Response":   "True",
		})
	})

	rec := c.Enrich(context.Background(), "Inception", false)
	assert.Equal(t, models.MovieRecord{
		Title:     "Inception",
		Poster:    "https://img.example/inception.jpg",
		Year:      "2010",
		Genre:     "Action, Adventure, Sci-Fi",
		Director:  "Christopher Nolan",
		Actors:    "Leonardo DiCaprio",
		Plot:      "A thief who steals corporate secrets.",
		Rating:    "8.8",
		Runtime:   "148 min",
		Language:  "English",
		IMDbID:    "tt1375666",
		Metascore: "74",
	}, rec)
}

func TestEnrichDefaultsMissingFields(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tt0000001", r.URL.Query().Get("i"))
		writeJSON(w, map[string]string{
			"Year":     "1999",
			"Poster":   "N/A",
			"imdbID":   "tt0000001",
			"Response": "True",
		})
	})

	rec := c.Enrich(context.Background(), "tt0000001", true)
	assert.Equal(t, "tt0000001", rec.Title)
	assert.Equal(t, "1999", rec.Year)
	assert.Equal(t, models.PlaceholderPoster, rec.Poster)
	assert.Equal(t, models.PlaceholderUnknown, rec.Genre)
	assert.Equal(t, models.PlaceholderUnknown, rec.Director)
	assert.Equal(t, models.PlaceholderUnknown, rec.Actors)
	assert.Equal(t, models.PlaceholderPlot, rec.Plot)
	assert.Equal(t, models.PlaceholderNA, rec.Rating)
	assert.Equal(t, models.PlaceholderUnknown, rec.Runtime)
	assert.Equal(t, models.PlaceholderUnknown, rec.Language)
	assert.Equal(t, models.PlaceholderNA, rec.Metascore)
}

func TestEnrichNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"Response": "False", "Error": "Movie not found!"})
	})

	rec := c.Enrich(context.Background(), "No Such Film", false)
	assert.Equal(t, models.PlaceholderRecord("No Such Film"), rec)
	assert.Equal(t, "No Such Film", rec.Title)
	assert.Equal(t, models.PlaceholderNoInfo, rec.Plot)
	assert.Empty(t, rec.IMDbID)
}

func TestEnrichUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusBadGateway)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.handler)
			assert.Equal(t, models.PlaceholderRecord("Up"), c.Enrich(context.Background(), "Up", false))
		})
	}
}

func TestEnrichDoesNotCache(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"Title": "Up", "Response": "True"})
	})

	c.Enrich(context.Background(), "Up", false)
	c.Enrich(context.Background(), "Up", false)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestLookup(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("i") == "tt1375666" {
			writeJSON(w, map[string]string{"Title": "Inception", "imdbID": "tt1375666", "Response": "True"})
			return
		}
		writeJSON(w, map[string]string{"Response": "False", "Error": "Incorrect IMDb ID."})
	})

	doc, err := c.Lookup(context.Background(), "tt1375666")
	require.NoError(t, err)
	assert.Equal(t, "Inception", doc["Title"])

	_, err = c.Lookup(context.Background(), "tt0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})

	for i := 0; i < 15; i++ {
		assert.Equal(t, models.PlaceholderRecord("Dune"), c.Enrich(context.Background(), "Dune", false))
	}
	assert.Equal(t, int32(10), atomic.LoadInt32(calls))
}
