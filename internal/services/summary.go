package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reviewhub/internal/models"
	"reviewhub/pkg/logger"
)

type RatingSummaryService struct {
	db *gorm.DB
}

func NewRatingSummaryService(db *gorm.DB) *RatingSummaryService {
	return &RatingSummaryService{db: db}
}

type RatingSummaryResponse struct {
	EntityType         string      `json:"entity_type"`
	EntityID           string      `json:"entity_id"`
	AverageRating      float64     `json:"average_rating"`
	TotalReviews       int         `json:"total_reviews"`
	RatingDistribution map[int]int `json:"rating_distribution"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// Recompute rebuilds the rating summary for one entity from its ACTIVE
// reviews inside its own transaction.
func (s *RatingSummaryService) Recompute(entityType, entityID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.RecomputeTx(tx, entityType, entityID)
	})
}

// RecomputeTx rebuilds the summary within the caller's transaction, so a
// review mutation and its aggregation commit or roll back together.
//
// The summary is always recomputed from scratch and fully overwritten, never
// patched incrementally: the result depends only on the current ACTIVE review
// set, so running it twice in a row is a no-op. An empty review set zeroes
// the row rather than deleting it.
func (s *RatingSummaryService) RecomputeTx(tx *gorm.DB, entityType, entityID string) error {
	var reviews []models.Review
	if err := tx.
		Where("entity_type = ? AND entity_id = ? AND status = ?", entityType, entityID, models.StatusActive).
		Find(&reviews).Error; err != nil {
		return err
	}

	var summary models.RatingSummary
	err := tx.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		summary = models.RatingSummary{EntityType: entityType, EntityID: entityID}
	} else if err != nil {
		return err
	}

	summary.AverageRating = 0
	summary.TotalReviews = 0
	summary.FiveStarCount = 0
	summary.FourStarCount = 0
	summary.ThreeStarCount = 0
	summary.TwoStarCount = 0
	summary.OneStarCount = 0

	if len(reviews) > 0 {
		sum := 0
		var counts [6]int
		for _, review := range reviews {
			sum += review.Rating
			counts[review.Rating]++
		}

		average := float64(sum) / float64(len(reviews))
		summary.AverageRating = math.Round(average*10) / 10
		summary.TotalReviews = len(reviews)
		summary.FiveStarCount = counts[5]
		summary.FourStarCount = counts[4]
		summary.ThreeStarCount = counts[3]
		summary.TwoStarCount = counts[2]
		summary.OneStarCount = counts[1]
	}

	if summary.ID == 0 {
		// Two first-ever aggregations for the same key can race past the
		// read above; ON CONFLICT turns the loser's insert into the same
		// full overwrite instead of aborting its transaction.
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"average_rating", "total_reviews",
				"five_star_count", "four_star_count", "three_star_count",
				"two_star_count", "one_star_count", "updated_at",
			}),
		}).Create(&summary).Error; err != nil {
			return err
		}
	} else if err := tx.Save(&summary).Error; err != nil {
		return err
	}

	logger.Debug("Rating summary recomputed for " + entityType + "/" + entityID)
	return nil
}

func (s *RatingSummaryService) Get(entityType, entityID string) (*RatingSummaryResponse, error) {
	var summary models.RatingSummary
	if err := s.db.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: rating summary for %s/%s", ErrNotFound, entityType, entityID)
		}
		return nil, err
	}

	return &RatingSummaryResponse{
		EntityType:    summary.EntityType,
		EntityID:      summary.EntityID,
		AverageRating: summary.AverageRating,
		TotalReviews:  summary.TotalReviews,
		RatingDistribution: map[int]int{
			5: summary.FiveStarCount,
			4: summary.FourStarCount,
			3: summary.ThreeStarCount,
			2: summary.TwoStarCount,
			1: summary.OneStarCount,
		},
		UpdatedAt: summary.UpdatedAt,
	}, nil
}
