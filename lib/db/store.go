package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/icco/moodmovies/models"
)

// Store implements the row operations on interactions, feedback and profiles.
type Store struct {
	db *gorm.DB
}

func NewStore(gormDB *gorm.DB) *Store {
	return &Store{db: gormDB}
}

func (s *Store) InteractionExists(ctx context.Context, userID, movieTitle string, kind models.InteractionType) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.InteractionEvent{}).
		Where("user_id = ? AND movie_title = ? AND interaction_type = ?", userID, movieTitle, kind).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to query interactions: %w", err)
	}
	return count > 0, nil
}

// InsertInteraction adds the event unless one with the same user, title and
// type is already stored. It reports whether a row was written.
func (s *Store) InsertInteraction(ctx context.Context, event *models.InteractionEvent) (bool, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert interaction: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListInteractions returns the newest interactions for a user first.
func (s *Store) ListInteractions(ctx context.Context, userID string, limit int) ([]models.InteractionEvent, error) {
	var events []models.InteractionEvent
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	return events, nil
}

func (s *Store) InsertFeedback(ctx context.Context, fb *models.Feedback) error {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(fb).Error; err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

// GetProfile returns nil without error when the user has no profile row.
func (s *Store) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
