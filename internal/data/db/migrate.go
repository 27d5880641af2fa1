package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/crowncoastal/landing-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Listings (MLS sync target, read-only for the landing pipeline)
		&types.Listing{},

		// Landing content
		&types.LandingPage{},
		&types.LandingDescription{},
		&types.LandingGenerationRun{},
	)
}

func EnsureLandingIndexes(db *gorm.DB) error {
	// uuid-ossp is already enabled in NewPostgresService, but safe to re-run
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}

	// Active-listing aggregates group by city; partial index keeps it tight.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listing_city_active
		ON listing (city, price)
		WHERE status = 'Active';
	`).Error; err != nil {
		return fmt.Errorf("create idx_listing_city_active: %w", err)
	}

	// Telemetry listing per page.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_landing_run_city_type_created
		ON landing_generation_run (city, page_type, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_landing_run_city_type_created: %w", err)
	}

	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureLandingIndexes(s.db); err != nil {
		s.log.Error("Landing index migration failed", "error", err)
		return err
	}
	return nil
}
