package db

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/icco/moodmovies/lib/config"
	"github.com/icco/moodmovies/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	gormDB, err := Open(config.DatabaseConfig{
		Driver: "sqlite",
		URL:    filepath.Join(t.TempDir(), "test.db"),
	}, logger)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(context.Background(), gormDB, logger))

	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewStore(gormDB)
}

func TestInteractionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	exists, err := s.InteractionExists(ctx, "user-1", "Up", models.InteractionLiked)
	require.NoError(t, err)
	assert.False(t, exists)

	event := &models.InteractionEvent{UserID: "user-1", MovieTitle: "Up", InteractionType: models.InteractionLiked}
	inserted, err := s.InsertInteraction(ctx, event)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEmpty(t, event.ID)

	exists, err = s.InteractionExists(ctx, "user-1", "Up", models.InteractionLiked)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.InteractionExists(ctx, "user-1", "Up", models.InteractionWatchlist)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = s.InteractionExists(ctx, "user-2", "Up", models.InteractionLiked)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInsertInteractionSkipsDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	inserted, err := s.InsertInteraction(ctx, &models.InteractionEvent{UserID: "user-1", MovieTitle: "Up", InteractionType: models.InteractionViewed})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.InsertInteraction(ctx, &models.InteractionEvent{UserID: "user-1", MovieTitle: "Up", InteractionType: models.InteractionViewed, MoodContext: "sad"})
	require.NoError(t, err)
	assert.False(t, inserted)

	inserted, err = s.InsertInteraction(ctx, &models.InteractionEvent{UserID: "user-1", MovieTitle: "Up", InteractionType: models.InteractionLiked})
	require.NoError(t, err)
	assert.True(t, inserted)

	events, err := s.ListInteractions(ctx, "user-1", 10)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestListInteractionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"First", "Second", "Third"} {
		_, err := s.InsertInteraction(ctx, &models.InteractionEvent{
			UserID:          "user-1",
			MovieTitle:      title,
			InteractionType: models.InteractionViewed,
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := s.InsertInteraction(ctx, &models.InteractionEvent{
		UserID: "someone-else", MovieTitle: "Other", InteractionType: models.InteractionViewed,
	})
	require.NoError(t, err)

	events, err := s.ListInteractions(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Third", events[0].MovieTitle)
	assert.Equal(t, "Second", events[1].MovieTitle)
}

func TestFeedbackAndProfile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	fb := &models.Feedback{Name: "Ana", Email: "ana@example.com", Message: "Great picks", Rating: 5}
	require.NoError(t, s.InsertFeedback(ctx, fb))
	assert.NotEmpty(t, fb.ID)

	profile, err := s.GetProfile(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, profile)

	require.NoError(t, s.db.Create(&models.Profile{ID: "user-1", Email: "ana@example.com", Username: "ana"}).Error)
	profile, err = s.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "ana", profile.Username)
}
