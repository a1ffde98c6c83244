// Package tracker records user interactions with recommended movies.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/icco/moodmovies/lib/metrics"
	"github.com/icco/moodmovies/models"
)

// ErrInvalidInteraction is returned for events missing a user, a title or a known type.
var ErrInvalidInteraction = errors.New("invalid interaction")

// AutoTrackCount is how many titles of a mood search are recorded as viewed.
const AutoTrackCount = 3

const asyncTimeout = 10 * time.Second

type Store interface {
	InteractionExists(ctx context.Context, userID, movieTitle string, kind models.InteractionType) (bool, error)
	// InsertInteraction must skip an event whose (user, title, type) is
	// already stored, atomically, and report whether it wrote a row.
	InsertInteraction(ctx context.Context, event *models.InteractionEvent) (bool, error)
	ListInteractions(ctx context.Context, userID string, limit int) ([]models.InteractionEvent, error)
}

type Tracker struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Tracker {
	return &Tracker{store: store, logger: logger}
}

// Record stores the event unless the same (user, title, type) already exists.
func (t *Tracker) Record(ctx context.Context, event models.InteractionEvent) error {
	if event.UserID == "" || event.MovieTitle == "" || !event.InteractionType.Valid() {
		metrics.Interactions.WithLabelValues("invalid").Inc()
		return fmt.Errorf("%w: user=%q title=%q type=%q", ErrInvalidInteraction, event.UserID, event.MovieTitle, event.InteractionType)
	}

	exists, err := t.store.InteractionExists(ctx, event.UserID, event.MovieTitle, event.InteractionType)
	if err != nil {
		metrics.Interactions.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to check interaction: %w", err)
	}
	if exists {
		metrics.Interactions.WithLabelValues("duplicate").Inc()
		return nil
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	inserted, err := t.store.InsertInteraction(ctx, &event)
	if err != nil {
		metrics.Interactions.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to record interaction: %w", err)
	}
	if !inserted {
		metrics.Interactions.WithLabelValues("duplicate").Inc()
		return nil
	}

	metrics.Interactions.WithLabelValues("inserted").Inc()
	return nil
}

// RecordAsync records the events in order in one background goroutine.
// Failures are only logged.
func (t *Tracker) RecordAsync(events ...models.InteractionEvent) {
	if len(events) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		for _, event := range events {
			if err := t.Record(ctx, event); err != nil {
				t.logger.Warn("Failed to track interaction",
					slog.String("user_id", event.UserID),
					slog.String("title", event.MovieTitle),
					slog.Any("error", err))
			}
		}
	}()
}

// TrackMood records the first titles of a mood search as viewed. Repeated
// titles are recorded once.
func (t *Tracker) TrackMood(userID, mood string, titles []string) {
	if userID == "" {
		return
	}
	if len(titles) > AutoTrackCount {
		titles = titles[:AutoTrackCount]
	}

	seen := make(map[string]bool, len(titles))
	events := make([]models.InteractionEvent, 0, len(titles))
	for _, title := range titles {
		if seen[title] {
			continue
		}
		seen[title] = true
		events = append(events, models.InteractionEvent{
			UserID:          userID,
			MovieTitle:      title,
			InteractionType: models.InteractionViewed,
			MoodContext:     mood,
		})
	}
	t.RecordAsync(events...)
}

// History returns the user's newest interactions first.
func (t *Tracker) History(ctx context.Context, userID string, limit int) ([]models.InteractionEvent, error) {
	events, err := t.store.ListInteractions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return events, nil
}
