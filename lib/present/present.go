// Package present turns recommended titles into renderable cards.
package present

import (
	"context"
	"fmt"
	"net/url"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/icco/moodmovies/models"
)

const plotLimit = 100

// Enricher resolves a title, or an IMDb id when byID is set, to a full record.
type Enricher interface {
	Enrich(ctx context.Context, titleOrID string, byID bool) models.MovieRecord
}

type Assembler struct {
	enricher    Enricher
	concurrency int
}

func NewAssembler(enricher Enricher, concurrency int) *Assembler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Assembler{enricher: enricher, concurrency: concurrency}
}

// Assemble enriches every title and returns one card per title in input order.
func (a *Assembler) Assemble(ctx context.Context, titles []string) []models.Card {
	cards := make([]models.Card, len(titles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, title := range titles {
		g.Go(func() error {
			cards[i] = NewCard(a.enricher.Enrich(gctx, title, false))
			return nil
		})
	}
	_ = g.Wait()

	return cards
}

func NewCard(movie models.MovieRecord) models.Card {
	return models.Card{
		Movie:     movie,
		ShortPlot: TruncatePlot(movie.Plot),
		Links:     StreamingLinks(movie.Title, movie.IMDbID),
	}
}

// TruncatePlot keeps the first 100 characters and appends "..." when it cut anything.
func TruncatePlot(plot string) string {
	if utf8.RuneCountInString(plot) <= plotLimit {
		return plot
	}
	return string([]rune(plot)[:plotLimit]) + "..."
}

// StreamingLinks builds search links on the major services. The IMDb link goes
// to the title page when the id is known.
func StreamingLinks(title, imdbID string) []models.StreamingLink {
	q := url.QueryEscape(title)

	imdb := "https://www.imdb.com/find?q=" + q
	if imdbID != "" {
		imdb = fmt.Sprintf("https://www.imdb.com/title/%s/", url.PathEscape(imdbID))
	}

	return []models.StreamingLink{
		{Name: "Netflix", URL: "https://www.netflix.com/search?q=" + q, Color: "#E50914"},
		{Name: "Amazon Prime", URL: "https://www.amazon.com/s?k=" + q + "+movie", Color: "#00A8E1"},
		{Name: "Disney+", URL: "https://www.disneyplus.com/search/" + url.PathEscape(title), Color: "#113CCF"},
		{Name: "Hulu", URL: "https://www.hulu.com/search?q=" + q, Color: "#1CE783"},
		{Name: "YouTube Movies", URL: "https://www.youtube.com/results?search_query=" + q + "+full+movie", Color: "#FF0000"},
		{Name: "IMDb", URL: imdb, Color: "#F5C518"},
	}
}
