package handlers

import (
	"story-cms/helper"
	"story-cms/models"
	"story-cms/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	dashboardService services.DashboardService
	userService      services.UserService
	Helper           *helper.HTTPHelper
}

func NewAdminHandler(dashboardService services.DashboardService, userService services.UserService, h *helper.HTTPHelper) *AdminHandler {
	return &AdminHandler{
		dashboardService: dashboardService,
		userService:      userService,
		Helper:           h,
	}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Dashboard loaded", stats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Users loaded", users)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if !h.Helper.ValidateRequest(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendCreated(c, "User created", user)
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if !h.Helper.ValidateRequest(c, &req) {
		return
	}

	user, err := h.userService.UpdateRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Role updated", user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		h.Helper.SendAppError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "User deleted", map[string]interface{}{"user_id": id})
}
