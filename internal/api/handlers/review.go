package handlers

import (
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/services"
	"reviewhub/internal/utils"
)

type ReviewHandler struct {
	reviews     *services.ReviewService
	helpfulness *services.HelpfulnessService
	responses   *services.ResponseService
}

func NewReviewHandler(reviews *services.ReviewService, helpfulness *services.HelpfulnessService, responses *services.ResponseService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, helpfulness: helpfulness, responses: responses}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req services.CreateReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviews.CreateReview(req, formImages(c))
	if err != nil {
		respondError(c, "Failed to create review", err)
		return
	}

	utils.SendCreated(c, "Review created successfully", review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviews.UpdateReview(reviewID, req, formImages(c))
	if err != nil {
		respondError(c, "Failed to update review", err)
		return
	}

	utils.SendSuccess(c, "Review updated successfully", review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}

	userID := c.Query("userId")
	if userID == "" {
		utils.SendValidationError(c, "userId is required")
		return
	}

	if err := h.reviews.DeleteReview(reviewID, userID); err != nil {
		respondError(c, "Failed to delete review", err)
		return
	}

	utils.SendSuccess(c, "Review deleted successfully", nil)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}

	review, err := h.reviews.GetReviewByID(reviewID)
	if err != nil {
		respondError(c, "Failed to fetch review", err)
		return
	}

	utils.SendSuccess(c, "Review retrieved successfully", review)
}

func (h *ReviewHandler) GetReviewsByEntity(c *gin.Context) {
	entityType := c.Query("entityType")
	entityID := c.Query("entityId")
	if entityType == "" || entityID == "" {
		utils.SendValidationError(c, "entityType and entityId are required")
		return
	}

	query := services.ListReviewsQuery{
		EntityType:   entityType,
		EntityID:     entityID,
		VerifiedOnly: c.Query("verifiedOnly") == "true",
		SortBy:       c.DefaultQuery("sortBy", "createdAt"),
		Direction:    c.DefaultQuery("direction", "DESC"),
	}
	query.Page, query.Limit = pageParams(c)

	if v, err := strconv.Atoi(c.Query("minRating")); err == nil {
		query.MinRating = &v
	}
	if v, err := strconv.Atoi(c.Query("maxRating")); err == nil {
		query.MaxRating = &v
	}

	reviews, total, err := h.reviews.GetReviewsByEntity(query)
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", utils.PagedData{
		Items: reviews,
		Total: total,
		Page:  query.Page,
		Limit: query.Limit,
	})
}

func (h *ReviewHandler) GetReviewsByUser(c *gin.Context) {
	userID := c.Param("user_id")
	page, limit := pageParams(c)

	reviews, total, err := h.reviews.GetReviewsByUser(
		userID, page, limit,
		c.DefaultQuery("sortBy", "createdAt"),
		c.DefaultQuery("direction", "DESC"),
	)
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", utils.PagedData{
		Items: reviews,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (h *ReviewHandler) MarkHelpfulness(c *gin.Context) {
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}

	var req services.HelpfulnessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.helpfulness.Vote(reviewID, req.UserID, *req.Helpful); err != nil {
		respondError(c, "Failed to record helpfulness vote", err)
		return
	}

	message := "Review marked helpful"
	if !*req.Helpful {
		message = "Review marked unhelpful"
	}
	utils.SendSuccess(c, message, nil)
}

func (h *ReviewHandler) AddResponse(c *gin.Context) {
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}

	var req services.ResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	response, err := h.responses.AddResponse(reviewID, req)
	if err != nil {
		respondError(c, "Failed to add response", err)
		return
	}

	utils.SendCreated(c, "Response added successfully", response)
}

func (h *ReviewHandler) FlagReview(c *gin.Context) {
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}

	if err := h.reviews.FlagReview(reviewID); err != nil {
		respondError(c, "Failed to flag review", err)
		return
	}

	utils.SendSuccess(c, "Review flagged successfully", nil)
}

func (h *ReviewHandler) GetFlaggedReviews(c *gin.Context) {
	reviews, err := h.reviews.GetFlaggedReviews()
	if err != nil {
		respondError(c, "Failed to fetch flagged reviews", err)
		return
	}

	utils.SendSuccess(c, "Flagged reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) ModerateReview(c *gin.Context) {
	reviewID, ok := reviewIDParam(c)
	if !ok {
		return
	}

	var req services.ModerateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.reviews.ModerateReview(reviewID, req); err != nil {
		respondError(c, "Failed to moderate review", err)
		return
	}

	utils.SendSuccess(c, "Review moderated successfully", nil)
}

func reviewIDParam(c *gin.Context) (uint, bool) {
	reviewID, err := strconv.ParseUint(c.Param("review_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid review ID")
		return 0, false
	}
	return uint(reviewID), true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func formImages(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["images"]
}
