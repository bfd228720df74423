package handlers

import (
	"errors"
	"io"
	"net/http"

	"story-cms/helper"
	"story-cms/models"
	"story-cms/services"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderationService services.ModerationService
	Helper            *helper.HTTPHelper
}

func NewModerationHandler(moderationService services.ModerationService, h *helper.HTTPHelper) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService, Helper: h}
}

func (h *ModerationHandler) Approve(c *gin.Context) {
	post, err := h.moderationService.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post approved and published", post)
}

// Reject accepts an empty body; the reason is optional.
func (h *ModerationHandler) Reject(c *gin.Context) {
	var req models.RejectPostRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
			return
		}
		if !h.Helper.ValidateRequest(c, &req) {
			return
		}
	}

	post, err := h.moderationService.Reject(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post rejected", post)
}

func (h *ModerationHandler) Delete(c *gin.Context) {
	result, err := h.moderationService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post deleted", result)
}

func (h *ModerationHandler) ListPending(c *gin.Context) {
	posts, err := h.moderationService.ListPending(c.Request.Context())
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Pending posts loaded", posts)
}
