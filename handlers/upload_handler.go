package handlers

import (
	"story-cms/helper"
	"story-cms/services"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	imageService services.ImageService
	Helper       *helper.HTTPHelper
}

func NewUploadHandler(imageService services.ImageService, h *helper.HTTPHelper) *UploadHandler {
	return &UploadHandler{imageService: imageService, Helper: h}
}

// UploadImage stores a post cover image and returns its public URL.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	img, err := readImage(c, "image")
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}
	if img == nil {
		h.Helper.SendBadRequest(c, "Image is required", h.Helper.EmptyJsonMap())
		return
	}

	url, err := h.imageService.UploadCover(c.Request.Context(), *img)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Image uploaded", map[string]interface{}{"url": url})
}
