package recommend

import (
	"context"
	"log/slog"
	"strings"
	"text/template"
	"unicode"

	"github.com/icco/moodmovies/lib/llm"
	"github.com/icco/moodmovies/lib/metrics"
)

// Normalizer maps free text to one of the catalog's emotion categories.
type Normalizer struct {
	gen    llm.Generator
	logger *slog.Logger
	tmpl   *template.Template
}

func NewNormalizer(gen llm.Generator, logger *slog.Logger) (*Normalizer, error) {
	tmpl, err := loadPromptTemplate("sentiment.txt")
	if err != nil {
		return nil, err
	}
	return &Normalizer{gen: gen, logger: logger, tmpl: tmpl}, nil
}

// Normalize returns the single lower-cased category word from the service, or
// the lower-cased input when the call fails or the answer is not one word.
func (n *Normalizer) Normalize(ctx context.Context, moodText string) string {
	fallback := strings.ToLower(moodText)

	prompt, err := render(n.tmpl, promptData{Mood: moodText, Categories: Moods()})
	if err != nil {
		n.logger.Error("Failed to render sentiment prompt", slog.Any("error", err))
		metrics.Normalizations.WithLabelValues("error").Inc()
		return fallback
	}

	text, err := n.gen.GenerateText(ctx, prompt)
	if err != nil {
		n.logger.Warn("Failed to analyze mood", slog.Any("error", err))
		metrics.Normalizations.WithLabelValues("error").Inc()
		return fallback
	}

	category, ok := parseCategory(text)
	if !ok {
		n.logger.Warn("Unusable mood category", slog.String("response", text))
		metrics.Normalizations.WithLabelValues("malformed").Inc()
		return fallback
	}

	metrics.Normalizations.WithLabelValues("ok").Inc()
	return category
}

func parseCategory(text string) (string, bool) {
	word := strings.ToLower(strings.TrimSpace(text))
	word = strings.TrimFunc(word, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	if word == "" {
		return "", false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	return word, true
}
