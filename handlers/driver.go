package handlers

import (
	"net/http"

	"ceygo/services/driver"
	"ceygo/utils"

	"github.com/gin-gonic/gin"
)

type DriverHandler struct {
	DriverService driver.DriverService
}

func NewDriverHandler(driverService driver.DriverService) *DriverHandler {
	return &DriverHandler{DriverService: driverService}
}

type verifyRequest struct {
	Verified *bool  `json:"verified" binding:"required"`
	Reason   string `json:"reason"`
}

func (h *DriverHandler) ListDriversHandler(c *gin.Context) {
	drivers, err := h.DriverService.ListDrivers(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.RespondError(c, "Failed to fetch drivers", err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

func (h *DriverHandler) GetDriverHandler(c *gin.Context) {
	d, err := h.DriverService.GetDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, "Failed to fetch driver", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DriverHandler) SetStatusHandler(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.DriverService.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive); err != nil {
		utils.RespondError(c, "Failed to update driver status", err)
		return
	}
	msg := "Driver deactivated successfully"
	if *req.IsActive {
		msg = "Driver activated successfully"
	}
	c.JSON(http.StatusOK, successResponse{Success: true, Message: msg})
}

func (h *DriverHandler) VerifyHandler(c *gin.Context) {
	var req verifyRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.DriverService.SetVerified(c.Request.Context(), c.Param("id"), *req.Verified, req.Reason); err != nil {
		utils.RespondError(c, "Failed to update driver verification", err)
		return
	}
	msg := "Driver verification rejected"
	if *req.Verified {
		msg = "Driver verified successfully"
	}
	c.JSON(http.StatusOK, successResponse{Success: true, Message: msg})
}

func (h *DriverHandler) ListSubscriptionsHandler(c *gin.Context) {
	subs, err := h.DriverService.ListSubscriptions(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, "Failed to fetch subscription history", err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *DriverHandler) GrantSubscriptionHandler(c *gin.Context) {
	var req driver.GrantRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.DriverService.GrantSubscription(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, "Failed to add subscription", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"subscriptionId": result.SubscriptionID,
		"expiryDate":     result.ExpiryDate,
	})
}

func (h *DriverHandler) RevokeSubscriptionHandler(c *gin.Context) {
	if err := h.DriverService.RevokeSubscription(c.Request.Context(), c.Param("id"), c.Param("subId")); err != nil {
		utils.RespondError(c, "Failed to delete subscription", err)
		return
	}
	c.JSON(http.StatusOK, successResponse{Success: true, Message: "Subscription deleted successfully"})
}
