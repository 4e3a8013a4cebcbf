package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/services"
	"reviewhub/internal/utils"
	"reviewhub/pkg/logger"
)

// respondError maps the service error categories onto HTTP statuses. Anything
// outside the taxonomy is logged and reported as an opaque 500.
func respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.SendError(c, http.StatusBadRequest, message, err)
	case errors.Is(err, services.ErrNotFound):
		utils.SendError(c, http.StatusNotFound, message, err)
	case errors.Is(err, services.ErrDuplicateReview):
		utils.SendError(c, http.StatusConflict, message, err)
	case errors.Is(err, services.ErrUnauthorized):
		utils.SendError(c, http.StatusForbidden, message, err)
	default:
		logger.Error(message, ": ", err)
		utils.SendInternalError(c, message)
	}
}
