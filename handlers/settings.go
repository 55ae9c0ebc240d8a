package handlers

import (
	"net/http"

	"ceygo/services/settings"
	"ceygo/utils"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	SettingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) *SettingsHandler {
	return &SettingsHandler{SettingsService: settingsService}
}

func (h *SettingsHandler) GetPaymentSettingsHandler(c *gin.Context) {
	s, err := h.SettingsService.GetPaymentSettings(c.Request.Context())
	if err != nil {
		utils.RespondError(c, "Failed to fetch payment settings", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SettingsHandler) UpdatePaymentSettingsHandler(c *gin.Context) {
	var req settings.UpdatePaymentSettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.SettingsService.UpdatePaymentSettings(c.Request.Context(), req); err != nil {
		utils.RespondError(c, "Failed to update payment settings", err)
		return
	}
	c.JSON(http.StatusOK, successResponse{Success: true})
}
