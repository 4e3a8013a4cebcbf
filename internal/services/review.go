package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"gorm.io/gorm"

	"reviewhub/internal/models"
	"reviewhub/internal/utils"
	"reviewhub/pkg/logger"
)

type ReviewService struct {
	db        *gorm.DB
	summaries *RatingSummaryService
	images    *ImageStorageService
	responses *ResponseService
}

func NewReviewService(db *gorm.DB, summaries *RatingSummaryService, images *ImageStorageService, responses *ResponseService) *ReviewService {
	return &ReviewService{db: db, summaries: summaries, images: images, responses: responses}
}

type CreateReviewRequest struct {
	EntityType string `form:"entityType" json:"entity_type" binding:"required,max=50"`
	EntityID   string `form:"entityId" json:"entity_id" binding:"required,max=100"`
	UserID     string `form:"userId" json:"user_id" binding:"required"`
	Rating     int    `form:"rating" json:"rating" binding:"required"`
	Title      string `form:"title" json:"title" binding:"max=100"`
	Comment    string `form:"comment" json:"comment" binding:"max=2000"`
}

type UpdateReviewRequest struct {
	UserID  string `form:"userId" json:"user_id" binding:"required"`
	Rating  int    `form:"rating" json:"rating" binding:"required"`
	Title   string `form:"title" json:"title" binding:"max=100"`
	Comment string `form:"comment" json:"comment" binding:"max=2000"`
}

type ModerateReviewRequest struct {
	Action      string `json:"action" binding:"required"`
	ModeratorID string `json:"moderator_id" binding:"required"`
	Note        string `json:"note" binding:"max=500"`
}

// ReviewDetail is the serializable projection handed to the presentation
// layer: the review row plus image metadata, and responses when requested.
// Raw image bytes never travel through it.
type ReviewDetail struct {
	models.Review
	Images    []models.ReviewImage    `json:"images"`
	Responses []models.ReviewResponse `json:"responses,omitempty"`
}

type ListReviewsQuery struct {
	EntityType   string
	EntityID     string
	MinRating    *int
	MaxRating    *int
	VerifiedOnly bool
	Page         int
	Limit        int
	SortBy       string
	Direction    string
}

// CreateReview inserts a new ACTIVE review and recomputes the entity's
// rating summary in the same transaction. The duplicate check is backed by a
// partial unique index on (entity_type, entity_id, user_id) for ACTIVE rows,
// so a race between the existence check and the insert surfaces as a
// duplicate-key error rather than a second ACTIVE review.
func (s *ReviewService) CreateReview(req CreateReviewRequest, images []*multipart.FileHeader) (*ReviewDetail, error) {
	if !utils.IsValidRating(req.Rating) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	review := models.Review{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		UserID:     req.UserID,
		Rating:     req.Rating,
		Title:      utils.SanitizeString(req.Title),
		Comment:    utils.SanitizeString(req.Comment),
		Verified:   false,
		Status:     models.StatusActive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Review{}).
			Where("entity_type = ? AND entity_id = ? AND user_id = ? AND status = ?",
				req.EntityType, req.EntityID, req.UserID, models.StatusActive).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: user has already reviewed this entity", ErrDuplicateReview)
		}

		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: user has already reviewed this entity", ErrDuplicateReview)
			}
			return err
		}

		if len(images) > 0 {
			if _, err := s.images.StoreImagesTx(tx, review.ID, images); err != nil {
				return err
			}
		}

		return s.summaries.RecomputeTx(tx, review.EntityType, review.EntityID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Review created with ID ", review.ID)
	return s.detail(review, false)
}

// UpdateReview overwrites rating/title/comment on the caller's own ACTIVE
// review and recomputes the summary, since the rating may have changed.
func (s *ReviewService) UpdateReview(reviewID uint, req UpdateReviewRequest, images []*multipart.FileHeader) (*ReviewDetail, error) {
	if !utils.IsValidRating(req.Rating) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	var review models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := findActiveReview(tx, reviewID, &review); err != nil {
			return err
		}
		if review.UserID != req.UserID {
			return fmt.Errorf("%w: user not allowed to update this review", ErrUnauthorized)
		}

		review.Rating = req.Rating
		review.Title = utils.SanitizeString(req.Title)
		review.Comment = utils.SanitizeString(req.Comment)
		// Write only the columns this operation owns: the helpfulness
		// counters belong to the vote routine, and a full-row write would
		// overwrite a vote committed since the read above.
		if err := tx.Model(&review).
			Select("rating", "title", "comment", "updated_at").
			Updates(models.Review{
				Rating:  review.Rating,
				Title:   review.Title,
				Comment: review.Comment,
			}).Error; err != nil {
			return err
		}

		if len(images) > 0 {
			if _, err := s.images.StoreImagesTx(tx, review.ID, images); err != nil {
				return err
			}
		}

		return s.summaries.RecomputeTx(tx, review.EntityType, review.EntityID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Review updated with ID ", review.ID)
	return s.detail(review, false)
}

// DeleteReview soft-deletes: the row stays for audit along with its votes,
// images and responses, but leaves every listing and aggregate from here on.
func (s *ReviewService) DeleteReview(reviewID uint, userID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := findActiveReview(tx, reviewID, &review); err != nil {
			return err
		}
		if review.UserID != userID {
			return fmt.Errorf("%w: user not allowed to delete this review", ErrUnauthorized)
		}

		review.Status = models.StatusDeleted
		if err := tx.Model(&review).
			Select("status", "updated_at").
			Updates(models.Review{Status: models.StatusDeleted}).Error; err != nil {
			return err
		}

		return s.summaries.RecomputeTx(tx, review.EntityType, review.EntityID)
	})
}

func (s *ReviewService) GetReviewByID(reviewID uint) (*ReviewDetail, error) {
	var review models.Review
	if err := findActiveReview(s.db, reviewID, &review); err != nil {
		return nil, err
	}
	return s.detail(review, true)
}

// GetReviewsByEntity lists ACTIVE reviews for one entity. verifiedOnly takes
// precedence over the rating range: when set, min/max are ignored and only
// verified reviews are returned.
func (s *ReviewService) GetReviewsByEntity(query ListReviewsQuery) ([]ReviewDetail, int64, error) {
	q := s.db.Model(&models.Review{}).
		Where("entity_type = ? AND entity_id = ? AND status = ?",
			query.EntityType, query.EntityID, models.StatusActive)

	if query.VerifiedOnly {
		q = q.Where("verified = ?", true)
	} else {
		if query.MinRating != nil {
			q = q.Where("rating >= ?", *query.MinRating)
		}
		if query.MaxRating != nil {
			q = q.Where("rating <= ?", *query.MaxRating)
		}
	}

	return s.page(q, query.Page, query.Limit, query.SortBy, query.Direction)
}

func (s *ReviewService) GetReviewsByUser(userID string, page, limit int, sortBy, direction string) ([]ReviewDetail, int64, error) {
	q := s.db.Model(&models.Review{}).
		Where("user_id = ? AND status = ?", userID, models.StatusActive)
	return s.page(q, page, limit, sortBy, direction)
}

// FlagReview marks an ACTIVE review for moderator attention.
func (s *ReviewService) FlagReview(reviewID uint) error {
	var review models.Review
	if err := findActiveReview(s.db, reviewID, &review); err != nil {
		return err
	}
	return s.db.Model(&models.Review{}).Where("id = ?", reviewID).
		Update("is_flagged", true).Error
}

func (s *ReviewService) GetFlaggedReviews() ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.
		Where("is_flagged = ? AND status = ?", true, models.StatusActive).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// ModerateReview resolves a flag: "approve" clears it, "remove" soft-deletes
// the review on the moderator's authority (no ownership check) and
// re-aggregates. Both record who moderated and why.
func (s *ReviewService) ModerateReview(reviewID uint, req ModerateReviewRequest) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := findActiveReview(tx, reviewID, &review); err != nil {
			return err
		}

		now := time.Now()
		moderation := models.Review{
			ModeratedAt:    &now,
			ModeratorID:    req.ModeratorID,
			ModerationNote: utils.SanitizeString(req.Note),
		}

		// Column-scoped like Update/Delete, keeping the vote counters out of
		// reach of moderation writes.
		switch req.Action {
		case "approve":
			moderation.IsFlagged = false
			return tx.Model(&review).
				Select("is_flagged", "moderated_at", "moderator_id", "moderation_note", "updated_at").
				Updates(moderation).Error
		case "remove":
			moderation.Status = models.StatusDeleted
			if err := tx.Model(&review).
				Select("status", "moderated_at", "moderator_id", "moderation_note", "updated_at").
				Updates(moderation).Error; err != nil {
				return err
			}
			return s.summaries.RecomputeTx(tx, review.EntityType, review.EntityID)
		default:
			return fmt.Errorf("%w: invalid action, use 'approve' or 'remove'", ErrValidation)
		}
	})
}

func findActiveReview(db *gorm.DB, reviewID uint, review *models.Review) error {
	err := db.Where("id = ? AND status = ?", reviewID, models.StatusActive).First(review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: review %d", ErrNotFound, reviewID)
	}
	return err
}

func (s *ReviewService) page(q *gorm.DB, page, limit int, sortBy, direction string) ([]ReviewDetail, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var reviews []models.Review
	err := q.Order(utils.SortClause(sortBy, direction)).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	details := make([]ReviewDetail, 0, len(reviews))
	for _, review := range reviews {
		detail, err := s.detail(review, false)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, *detail)
	}
	return details, total, nil
}

func (s *ReviewService) detail(review models.Review, withResponses bool) (*ReviewDetail, error) {
	images, err := s.images.ImagesOf(review.ID)
	if err != nil {
		return nil, err
	}

	detail := &ReviewDetail{Review: review, Images: images}
	if withResponses {
		responses, err := s.responses.ResponsesOf(review.ID)
		if err != nil {
			return nil, err
		}
		detail.Responses = responses
	}
	return detail, nil
}
