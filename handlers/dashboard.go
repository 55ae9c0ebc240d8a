package handlers

import (
	"net/http"

	"ceygo/services/dashboard"
	"ceygo/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	DashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) *DashboardHandler {
	return &DashboardHandler{DashboardService: dashboardService}
}

func (h *DashboardHandler) StatsHandler(c *gin.Context) {
	stats, err := h.DashboardService.Stats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, "Failed to fetch stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) RecentActivityHandler(c *gin.Context) {
	items, err := h.DashboardService.RecentActivity(c.Request.Context())
	if err != nil {
		utils.RespondError(c, "Failed to fetch recent activity", err)
		return
	}
	c.JSON(http.StatusOK, items)
}
