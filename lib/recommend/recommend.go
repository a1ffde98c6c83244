// Package recommend turns a mood into an ordered list of movie titles, using
// the generative service first and the static catalog when that fails.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"unicode"

	"github.com/icco/moodmovies/lib/llm"
	"github.com/icco/moodmovies/lib/metrics"
	"github.com/icco/moodmovies/lib/recommend/prompts"
)

// ErrEmptyMood is returned for blank mood input.
var ErrEmptyMood = errors.New("mood input is required")

type Variant string

const (
	// VariantSimple asks for ten titles with minimal instructions.
	VariantSimple Variant = "simple"
	// VariantEnhanced asks for eight titles with genre, era and origin guidance.
	VariantEnhanced Variant = "enhanced"
)

const (
	SimpleCount   = 10
	EnhancedCount = 8

	// minTitleLength drops enumeration debris like "a" while keeping real
	// two-letter titles such as "Up" and "It".
	minTitleLength = 2
)

type promptData struct {
	Mood       string
	Count      int
	Categories []string
}

type Recommender struct {
	gen      llm.Generator
	logger   *slog.Logger
	simple   *template.Template
	enhanced *template.Template
}

func New(gen llm.Generator, logger *slog.Logger) (*Recommender, error) {
	simple, err := loadPromptTemplate("simple.txt")
	if err != nil {
		return nil, err
	}

	enhanced, err := loadPromptTemplate("enhanced.txt")
	if err != nil {
		return nil, err
	}

	return &Recommender{
		gen:      gen,
		logger:   logger,
		simple:   simple,
		enhanced: enhanced,
	}, nil
}

func loadPromptTemplate(filename string) (*template.Template, error) {
	content, err := prompts.FS.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	tmpl, err := template.New(filename).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template %s: %w", filename, err)
	}

	return tmpl, nil
}

func render(tmpl *template.Template, data promptData) (string, error) {
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", tmpl.Name(), err)
	}
	return out.String(), nil
}

// Recommend validates the mood and dispatches to the requested variant.
func (r *Recommender) Recommend(ctx context.Context, mood string, variant Variant) ([]string, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return nil, ErrEmptyMood
	}

	if variant == VariantSimple {
		return r.Simple(ctx, mood), nil
	}
	return r.Enhanced(ctx, mood), nil
}

// Simple returns up to ten titles. It never returns an empty list.
func (r *Recommender) Simple(ctx context.Context, mood string) []string {
	titles, err := r.generate(ctx, r.simple, mood, SimpleCount, ParseSimple)
	return r.orFallback(mood, VariantSimple, titles, err)
}

// Enhanced returns up to eight cleaned titles. It never returns an empty list.
func (r *Recommender) Enhanced(ctx context.Context, mood string) []string {
	titles, err := r.generate(ctx, r.enhanced, mood, EnhancedCount, ParseEnhanced)
	return r.orFallback(mood, VariantEnhanced, titles, err)
}

// Similar recommends titles for a user based on movies they liked.
func (r *Recommender) Similar(ctx context.Context, liked []string) []string {
	if len(liked) == 0 {
		return clone(PopularTitles)
	}
	if len(liked) > 3 {
		liked = liked[:3]
	}
	return r.Enhanced(ctx, "movies similar to "+strings.Join(liked, ", "))
}

func (r *Recommender) generate(ctx context.Context, tmpl *template.Template, mood string, count int, parse func(string, int) []string) ([]string, error) {
	prompt, err := render(tmpl, promptData{Mood: mood, Count: count})
	if err != nil {
		return nil, err
	}

	text, err := r.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recommendations: %w", err)
	}

	return parse(text, count), nil
}

func (r *Recommender) orFallback(mood string, variant Variant, titles []string, err error) []string {
	if err == nil && len(titles) > 0 {
		metrics.Recommendations.WithLabelValues(string(variant), "ai").Inc()
		r.logger.Debug("Generated recommendations",
			slog.String("variant", string(variant)),
			slog.Int("count", len(titles)))
		return titles
	}

	attrs := []any{slog.String("variant", string(variant)), slog.String("mood", mood)}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	r.logger.Warn("Using fallback recommendations", attrs...)
	metrics.Recommendations.WithLabelValues(string(variant), "fallback").Inc()
	return Lookup(mood)
}

// ParseSimple splits comma separated text into at most limit trimmed titles.
func ParseSimple(text string, limit int) []string {
	var titles []string
	for _, token := range strings.Split(text, ",") {
		if token = strings.TrimSpace(token); token != "" {
			titles = append(titles, token)
		}
	}
	return truncate(titles, limit)
}

// ParseEnhanced is ParseSimple plus removal of leading enumeration markers
// ("1.", "2 -", "3)", "(4)") and of fragments shorter than two characters.
func ParseEnhanced(text string, limit int) []string {
	var titles []string
	for _, token := range strings.Split(text, ",") {
		token = strings.TrimLeftFunc(token, isMarker)
		token = strings.TrimSpace(token)
		if len([]rune(token)) >= minTitleLength {
			titles = append(titles, token)
		}
	}
	return truncate(titles, limit)
}

func isMarker(r rune) bool {
	return unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSpace(r)
}

func truncate(titles []string, limit int) []string {
	if limit > 0 && len(titles) > limit {
		return titles[:limit]
	}
	return titles
}
