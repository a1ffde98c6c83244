package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limited holds generation requests to a fixed rate. A request waits for a
// token; it is never retried.
type Limited struct {
	next    Generator
	limiter *rate.Limiter
}

func NewLimited(next Generator, requestsPerSecond int) *Limited {
	return &Limited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

func (l *Limited) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for rate limiter: %w", err)
	}
	return l.next.GenerateText(ctx, prompt)
}
