package db

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/icco/moodmovies/models"
)

const interactionsUniqueIndex = "idx_interactions_unique"

var tables = []any{
	&models.InteractionEvent{},
	&models.Feedback{},
	&models.Profile{},
}

// RunMigrations prepares the schema. On postgres the tables belong to the
// auth provider, so they are only checked and given the interactions dedupe
// index; on sqlite they are created.
func RunMigrations(ctx context.Context, gormDB *gorm.DB, logger *slog.Logger) error {
	if gormDB.Dialector.Name() != "sqlite" {
		for _, table := range tables {
			if !gormDB.WithContext(ctx).Migrator().HasTable(table) {
				logger.WarnContext(ctx, "Expected table is missing", slog.String("table", fmt.Sprintf("%T", table)))
			}
		}
		return ensureInteractionsUniqueIndex(ctx, gormDB, logger)
	}

	enableSQLiteOptimizations(ctx, gormDB, logger)

	if err := gormDB.WithContext(ctx).AutoMigrate(tables...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

func enableSQLiteOptimizations(ctx context.Context, gormDB *gorm.DB, logger *slog.Logger) {
	optimizations := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range optimizations {
		if err := gormDB.WithContext(ctx).Exec(pragma).Error; err != nil {
			logger.WarnContext(ctx, "Failed to execute pragma", slog.String("pragma", pragma), slog.Any("error", err))
		} else {
			logger.DebugContext(ctx, "Executed pragma", slog.String("pragma", pragma))
		}
	}
}

// ensureInteractionsUniqueIndex adds the dedupe index to a provider-managed
// interactions table that predates it.
func ensureInteractionsUniqueIndex(ctx context.Context, gormDB *gorm.DB, logger *slog.Logger) error {
	migrator := gormDB.WithContext(ctx).Migrator()
	if !migrator.HasTable(&models.InteractionEvent{}) || migrator.HasIndex(&models.InteractionEvent{}, interactionsUniqueIndex) {
		return nil
	}

	if err := migrator.CreateIndex(&models.InteractionEvent{}, interactionsUniqueIndex); err != nil {
		return fmt.Errorf("failed to create %s: %w", interactionsUniqueIndex, err)
	}
	logger.InfoContext(ctx, "Created index", slog.String("index", interactionsUniqueIndex))
	return nil
}
