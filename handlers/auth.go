package handlers

import (
	"errors"
	"net/http"

	"ceygo/middleware"
	"ceygo/services/auth"
	"ceygo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	AuthService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) *AuthHandler {
	return &AuthHandler{AuthService: authService}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler exchanges admin credentials for a session token.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Same answer as a wrong password.
		loginFailed(c)
		return
	}

	session, err := h.AuthService.Login(c.Request.Context(), req.Email, req.Password)
	var appErr *utils.AppError
	if errors.As(err, &appErr) && appErr.Status == http.StatusUnauthorized {
		loginFailed(c)
		return
	}
	if err != nil {
		utils.RespondError(c, "Login failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     session.Token,
		"email":     session.Email,
		"expiresAt": session.ExpiresAt,
	})
}

func loginFailed(c *gin.Context) {
	getLogger(c).Warn("Login failed", zap.String("ip", c.ClientIP()))
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
}

func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if err := h.AuthService.Logout(c.Request.Context(), claims); err != nil {
		utils.RespondError(c, "Logout failed", err)
		return
	}
	getLogger(c).Info("Admin session closed", zap.String("sessionID", claims.Id))
	c.JSON(http.StatusOK, successResponse{Success: true, Message: "Logged out"})
}

// SessionHandler reports the current session, letting the console check a stored token.
func (h *AuthHandler) SessionHandler(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"email":         claims.Subject,
		"expiresAt":     claims.ExpiresAt,
	})
}
