package handlers

import (
	"github.com/gin-gonic/gin"

	"reviewhub/internal/services"
	"reviewhub/internal/utils"
)

type SummaryHandler struct {
	summaries *services.RatingSummaryService
}

func NewSummaryHandler(summaries *services.RatingSummaryService) *SummaryHandler {
	return &SummaryHandler{summaries: summaries}
}

func (h *SummaryHandler) GetRatingSummary(c *gin.Context) {
	entityType := c.Query("entityType")
	entityID := c.Query("entityId")
	if entityType == "" || entityID == "" {
		utils.SendValidationError(c, "entityType and entityId are required")
		return
	}

	summary, err := h.summaries.Get(entityType, entityID)
	if err != nil {
		respondError(c, "Failed to fetch rating summary", err)
		return
	}

	utils.SendSuccess(c, "Rating summary retrieved successfully", summary)
}

// RefreshRatingSummary forces a full recompute from the ACTIVE review set.
func (h *SummaryHandler) RefreshRatingSummary(c *gin.Context) {
	entityType := c.Query("entityType")
	entityID := c.Query("entityId")
	if entityType == "" || entityID == "" {
		utils.SendValidationError(c, "entityType and entityId are required")
		return
	}

	if err := h.summaries.Recompute(entityType, entityID); err != nil {
		respondError(c, "Failed to refresh rating summary", err)
		return
	}

	utils.SendSuccess(c, "Rating summary refreshed successfully", nil)
}
