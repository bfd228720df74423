package handlers

import (
	"story-cms/helper"
	"story-cms/models"
	"story-cms/services"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the published blog without authentication.
type PublicHandler struct {
	blogService services.BlogService
	Helper      *helper.HTTPHelper
}

func NewPublicHandler(blogService services.BlogService, h *helper.HTTPHelper) *PublicHandler {
	return &PublicHandler{blogService: blogService, Helper: h}
}

func (h *PublicHandler) ListPosts(c *gin.Context) {
	var params models.PostListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid query parameters", err.Error())
		return
	}
	params.Normalize()

	list, err := h.blogService.ListPublished(c.Request.Context(), params)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Posts loaded", map[string]interface{}{
		"posts":  list.Posts,
		"paging": h.Helper.GeneratePaging(c, list.Limit, list.Page, int(list.Total)),
	})
}

func (h *PublicHandler) GetPost(c *gin.Context) {
	post, err := h.blogService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post loaded", post)
}

func (h *PublicHandler) Related(c *gin.Context) {
	posts, err := h.blogService.Related(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Related posts loaded", posts)
}

func (h *PublicHandler) Categories(c *gin.Context) {
	h.Helper.SendSuccess(c, "Categories loaded", h.blogService.Categories())
}
