package handlers

import (
	"story-cms/helper"
	"story-cms/models"
	"story-cms/services"

	"github.com/gin-gonic/gin"
)

type StoryHandler struct {
	submissionService services.SubmissionService
	Helper            *helper.HTTPHelper
}

func NewStoryHandler(submissionService services.SubmissionService, h *helper.HTTPHelper) *StoryHandler {
	return &StoryHandler{submissionService: submissionService, Helper: h}
}

// Submit takes the multipart story form: title, content, name, email, bio
// and an image file.
func (h *StoryHandler) Submit(c *gin.Context) {
	var sub models.StorySubmission
	if err := c.ShouldBind(&sub); err != nil {
		h.Helper.SendBadRequest(c, "Invalid form data", err.Error())
		return
	}
	if !h.Helper.ValidateRequest(c, &sub) {
		return
	}

	img, err := readImage(c, "image")
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	result, err := h.submissionService.Submit(c.Request.Context(), sub, img)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendCreated(c, result.Message, result)
}
