package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reviewhub/internal/models"
)

func Init(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the four collections and their unique indexes, including
// the partial unique index enforcing one ACTIVE review per user per entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Review{},
		&models.RatingSummary{},
		&models.HelpfulnessVote{},
		&models.ReviewImage{},
		&models.ReviewResponse{},
	)
}
