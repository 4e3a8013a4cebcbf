package services

import (
	"gorm.io/gorm"

	"reviewhub/internal/models"
	"reviewhub/internal/utils"
	"reviewhub/pkg/logger"
)

type ResponseService struct {
	db *gorm.DB
}

func NewResponseService(db *gorm.DB) *ResponseService {
	return &ResponseService{db: db}
}

type ResponseRequest struct {
	ResponderID   string `json:"responder_id" binding:"required"`
	ResponderType string `json:"responder_type" binding:"required"`
	Response      string `json:"response" binding:"required,max=1000"`
}

// AddResponse appends an immutable reply to an ACTIVE review. Responses have
// no aggregation impact and survive review soft-deletion.
func (s *ResponseService) AddResponse(reviewID uint, req ResponseRequest) (*models.ReviewResponse, error) {
	var review models.Review
	if err := findActiveReview(s.db, reviewID, &review); err != nil {
		return nil, err
	}

	response := models.ReviewResponse{
		ReviewID:      reviewID,
		ResponderID:   req.ResponderID,
		ResponderType: req.ResponderType,
		Response:      utils.SanitizeString(req.Response),
	}
	if err := s.db.Create(&response).Error; err != nil {
		return nil, err
	}

	logger.Info("Response added to review ", reviewID)
	return &response, nil
}

// ResponsesOf lists replies newest-first.
func (s *ResponseService) ResponsesOf(reviewID uint) ([]models.ReviewResponse, error) {
	var responses []models.ReviewResponse
	err := s.db.Where("review_id = ?", reviewID).
		Order("created_at DESC, id DESC").
		Find(&responses).Error
	return responses, err
}
