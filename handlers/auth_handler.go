package handlers

import (
	"story-cms/helper"
	"story-cms/middleware"
	"story-cms/models"
	"story-cms/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	Helper      *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService, h *helper.HTTPHelper) *AuthHandler {
	return &AuthHandler{authService: authService, Helper: h}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if !h.Helper.ValidateRequest(c, &req) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Login success", response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.SessionFromContext(c)); err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Logged out", h.Helper.EmptyJsonMap())
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if session == nil {
		h.Helper.SendUnauthorizedError(c, "User not found in context", h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), session.UserID)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile loaded", user)
}
