// Package llm wraps the generative text services behind a single prompt-in,
// text-out interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/icco/moodmovies/lib/config"
)

// ErrEmptyResponse is returned when the service answered without any text.
var ErrEmptyResponse = errors.New("empty response from generative service")

// Generator produces text for a prompt.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// New builds the configured backend once at start-up, wrapped in a rate limiter.
func New(ctx context.Context, cfg config.GenAIConfig, httpClient *http.Client, logger *slog.Logger) (Generator, error) {
	var (
		gen Generator
		err error
	)

	switch cfg.Provider {
	case config.ProviderOpenAI:
		gen = NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, "", httpClient)
	case config.ProviderGemini:
		gen, err = NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "", httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}

	logger.Info("Generative text backend ready", slog.String("provider", cfg.Provider), slog.Int("rate_limit", cfg.RateLimit))
	return NewLimited(gen, cfg.RateLimit), nil
}
