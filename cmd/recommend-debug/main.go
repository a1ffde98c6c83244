// Command recommend-debug runs the mood pipeline once and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/icco/moodmovies/lib/config"
	"github.com/icco/moodmovies/lib/llm"
	"github.com/icco/moodmovies/lib/omdb"
	"github.com/icco/moodmovies/lib/present"
	"github.com/icco/moodmovies/lib/recommend"
	"github.com/icco/moodmovies/models"
)

type result struct {
	Mood       string        `json:"mood"`
	Normalized string        `json:"normalized,omitempty"`
	Variant    string        `json:"variant"`
	Titles     []string      `json:"titles"`
	Cards      []models.Card `json:"cards,omitempty"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

func main() {
	mood := flag.String("mood", "", "mood or free-text query")
	variant := flag.String("variant", string(recommend.VariantEnhanced), "simple or enhanced")
	normalize := flag.Bool("normalize", false, "map the mood to an emotion category first")
	enrich := flag.Bool("enrich", false, "look up every title in OMDb and print cards")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	if *mood == "" {
		logger.Error("-mood is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	gen, err := llm.New(ctx, cfg.GenAI, httpClient, logger)
	if err != nil {
		logger.Error("Failed to create generator", slog.Any("error", err))
		os.Exit(1)
	}

	rec, err := recommend.New(gen, logger)
	if err != nil {
		logger.Error("Failed to create recommender", slog.Any("error", err))
		os.Exit(1)
	}

	start := time.Now()
	out := result{Mood: *mood, Variant: *variant}

	query := *mood
	if *normalize {
		norm, err := recommend.NewNormalizer(gen, logger)
		if err != nil {
			logger.Error("Failed to create normalizer", slog.Any("error", err))
			os.Exit(1)
		}
		query = norm.Normalize(ctx, *mood)
		out.Normalized = query
	}

	out.Titles, err = rec.Recommend(ctx, query, recommend.Variant(*variant))
	if err != nil {
		logger.Error("Failed to generate recommendations", slog.Any("error", err))
		os.Exit(1)
	}

	if *enrich {
		movies := omdb.NewClient(cfg.OMDb.APIKey, cfg.OMDb.BaseURL, httpClient, logger)
		out.Cards = present.NewAssembler(movies, cfg.EnrichConcurrency).Assemble(ctx, out.Titles)
	}
	out.Elapsed = time.Since(start)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("Failed to encode result", slog.Any("error", err))
		os.Exit(1)
	}
}
