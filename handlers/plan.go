package handlers

import (
	"net/http"

	"ceygo/services/plan"
	"ceygo/utils"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	PlanService plan.PlanService
}

func NewPlanHandler(planService plan.PlanService) *PlanHandler {
	return &PlanHandler{PlanService: planService}
}

func (h *PlanHandler) ListPlansHandler(c *gin.Context) {
	plans, err := h.PlanService.ListPlans(c.Request.Context())
	if err != nil {
		utils.RespondError(c, "Failed to fetch subscription plans", err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *PlanHandler) CreatePlanHandler(c *gin.Context) {
	var req plan.CreatePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.PlanService.CreatePlan(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, "Failed to create subscription plan", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PlanHandler) UpdatePlanHandler(c *gin.Context) {
	var req plan.UpdatePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.PlanService.UpdatePlan(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, "Failed to update subscription plan", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PlanHandler) DeletePlanHandler(c *gin.Context) {
	if err := h.PlanService.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, "Failed to delete subscription plan", err)
		return
	}
	c.JSON(http.StatusOK, successResponse{Success: true, Message: "Subscription plan deleted"})
}
