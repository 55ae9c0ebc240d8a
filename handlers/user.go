package handlers

import (
	"net/http"

	"ceygo/services/user"
	"ceygo/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(userService user.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

type statusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ListUsersHandler serves GET /api/users?role=&status=.
func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	users, err := h.UserService.ListUsers(c.Request.Context(), c.Query("role"), c.Query("status"))
	if err != nil {
		utils.RespondError(c, "Failed to fetch users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUserHandler(c *gin.Context) {
	u, err := h.UserService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, "Failed to fetch user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) ToggleStatusHandler(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.UserService.ToggleStatus(c.Request.Context(), c.Param("id"), *req.IsActive); err != nil {
		utils.RespondError(c, "Failed to update user status", err)
		return
	}
	msg := "User deactivated successfully"
	if *req.IsActive {
		msg = "User activated successfully"
	}
	c.JSON(http.StatusOK, successResponse{Success: true, Message: msg})
}
