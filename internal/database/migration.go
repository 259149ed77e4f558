package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/dts-gxu/JobTracker/internal/models"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Application{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
