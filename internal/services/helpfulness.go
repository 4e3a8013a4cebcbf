package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reviewhub/internal/models"
)

// HelpfulnessService owns the per-user vote ledger and is the only writer of
// the cached helpful/unhelpful counters on Review.
type HelpfulnessService struct {
	db *gorm.DB
}

func NewHelpfulnessService(db *gorm.DB) *HelpfulnessService {
	return &HelpfulnessService{db: db}
}

type HelpfulnessRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Helpful *bool  `json:"helpful" binding:"required"`
}

// Vote records the user's current stance on a review. An existing vote is
// replaced, not updated: decrement the old polarity's counter, delete the old
// row, insert the new one, increment the new polarity's counter. A same-
// polarity re-vote runs the full sequence and nets to zero.
//
// Counters move via SQL expressions and the replace is guarded by the unique
// (review_id, user_id) index, so votes from different users interleave freely
// while a same-user re-vote race fails the insert and rolls back whole.
func (s *HelpfulnessService) Vote(reviewID uint, userID string, helpful bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := findActiveReview(tx, reviewID, &review); err != nil {
			return err
		}

		var existing models.HelpfulnessVote
		err := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).
			First(&existing).Error
		switch {
		case err == nil:
			if err := adjustCounter(tx, reviewID, existing.Helpful, -1); err != nil {
				return err
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		vote := models.HelpfulnessVote{
			ReviewID: reviewID,
			UserID:   userID,
			Helpful:  helpful,
		}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}

		return adjustCounter(tx, reviewID, helpful, 1)
	})
}

// VotesOf lists the ledger rows for a review. Votes survive review soft-
// deletion, so this does not require ACTIVE status.
func (s *HelpfulnessService) VotesOf(reviewID uint) ([]models.HelpfulnessVote, error) {
	var votes []models.HelpfulnessVote
	err := s.db.Where("review_id = ?", reviewID).
		Order("created_at DESC").
		Find(&votes).Error
	return votes, err
}

func adjustCounter(tx *gorm.DB, reviewID uint, helpful bool, delta int) error {
	column := "unhelpful_count"
	if helpful {
		column = "helpful_count"
	}
	return tx.Model(&models.Review{}).Where("id = ?", reviewID).
		UpdateColumn(column, gorm.Expr(fmt.Sprintf("%s + ?", column), delta)).Error
}
