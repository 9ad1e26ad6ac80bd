package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clarkhq/clark-server/internal/config"
)

// NewDB opens the configured SQL backend and migrates the document schema.
// MySQL for shared deployments, SQLite for local single-box runs and tests.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Store.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.Store.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.Store.DSN)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// AutoMigrate ensures schema is in sync with models.
	if err := database.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return database, nil
}
