package database

import (
	"fmt"

	"invitation-platform/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Msg("Database connection established")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	// Account and catalog models first, the rest reference them
	coreModels := []interface{}{
		&models.User{},
		&models.Template{},
		&models.Event{},
		&models.Guest{},
	}

	for _, model := range coreModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Warn().Err(err).Msgf("migration issue for %T", model)
		}
	}

	// Admin models
	adminModels := []interface{}{
		&models.AdminUser{},
		&models.AdminLog{},
		&models.Asset{},
		&models.PlatformStats{},
	}

	for _, model := range adminModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Warn().Err(err).Msgf("migration issue for %T", model)
		}
	}

	log.Info().Msg("Database migrations completed")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
