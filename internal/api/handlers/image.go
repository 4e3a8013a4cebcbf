package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/services"
	"reviewhub/internal/utils"
)

type ImageHandler struct {
	images *services.ImageStorageService
}

func NewImageHandler(images *services.ImageStorageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// GetImage streams the raw image bytes. This is the only endpoint that
// serves binary image data; review projections carry metadata only.
func (h *ImageHandler) GetImage(c *gin.Context) {
	imageID, ok := imageIDParam(c)
	if !ok {
		return
	}

	image, data, err := h.images.GetImage(imageID)
	if err != nil {
		respondError(c, "Failed to fetch image", err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+image.FileName+`"`)
	c.Data(http.StatusOK, image.ContentType, data)
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	imageID, ok := imageIDParam(c)
	if !ok {
		return
	}

	if err := h.images.DeleteImage(imageID); err != nil {
		respondError(c, "Failed to delete image", err)
		return
	}

	utils.SendSuccess(c, "Image deleted successfully", nil)
}

func imageIDParam(c *gin.Context) (uint, bool) {
	imageID, err := strconv.ParseUint(c.Param("image_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid image ID")
		return 0, false
	}
	return uint(imageID), true
}
