// Package db connects to the row store shared with the auth provider and
// implements the queries the application needs.
package db

import (
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/icco/moodmovies/lib/config"
)

// Open connects using the configured driver. "postgres" talks to the
// provider's database; "sqlite" is for development and tests.
func Open(cfg config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        cfg.URL,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Connected to database", slog.String("driver", cfg.Driver))
	return gormDB, nil
}
