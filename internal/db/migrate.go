package db

import (
	"github.com/mateuschrist/taxdeed-api/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Property{},
		&models.ScraperState{},
		&models.ScraperRun{},
	)
}
