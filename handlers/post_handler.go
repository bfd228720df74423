package handlers

import (
	"story-cms/helper"
	"story-cms/models"
	"story-cms/services"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService services.PostService
	Helper      *helper.HTTPHelper
}

func NewPostHandler(postService services.PostService, h *helper.HTTPHelper) *PostHandler {
	return &PostHandler{postService: postService, Helper: h}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if !h.Helper.ValidateRequest(c, &req) {
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Post created", post)
}

func (h *PostHandler) GetPosts(c *gin.Context) {
	var params models.PostListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid query parameters", err.Error())
		return
	}
	params.Normalize()

	posts, total, err := h.postService.GetPosts(c.Request.Context(), params)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Posts loaded", map[string]interface{}{
		"posts":  posts,
		"paging": h.Helper.GeneratePaging(c, params.Limit, params.Page, int(total)),
	})
}

func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post loaded", post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if !h.Helper.ValidateRequest(c, &req) {
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post updated", post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	id := c.Param("id")
	if err := h.postService.DeletePost(c.Request.Context(), id); err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post deleted", map[string]interface{}{"post_id": id})
}

// DirectDelete is the dedicated delete endpoint used as the first moderation
// delete strategy.
func (h *PostHandler) DirectDelete(c *gin.Context) {
	id := c.Param("id")
	method, err := h.postService.DirectDelete(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post deleted", map[string]interface{}{
		"post_id": id,
		"method":  method,
	})
}
