package plan

import (
	"context"
	"errors"
	"strings"

	"ceygo/database/docstore"
	"ceygo/database/repository"
	"ceygo/models"
	"ceygo/utils"

	"go.uber.org/zap"
)

// PlanService manages the subscription plan catalog.
type PlanService interface {
	ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*models.SubscriptionPlan, error)
	// UpdatePlan writes only the fields present in req.
	UpdatePlan(ctx context.Context, id string, req UpdatePlanRequest) (*models.SubscriptionPlan, error)
	DeletePlan(ctx context.Context, id string) error
}

type CreatePlanRequest struct {
	Name         string  `json:"name" binding:"required"`
	Type         string  `json:"type" binding:"required"`
	DurationDays int     `json:"durationDays" binding:"required,gt=0"`
	Price        float64 `json:"price" binding:"gte=0"`
	Description  string  `json:"description"`
	IsActive     *bool   `json:"isActive"`
}

type UpdatePlanRequest struct {
	Name         *string  `json:"name"`
	Type         *string  `json:"type"`
	DurationDays *int     `json:"durationDays"`
	Price        *float64 `json:"price"`
	Description  *string  `json:"description"`
	IsActive     *bool    `json:"isActive"`
}

// patch returns the store fields for the provided values.
func (r UpdatePlanRequest) patch() (map[string]any, error) {
	p := map[string]any{}
	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			return nil, utils.BadRequest("name cannot be empty")
		}
		p["name"] = *r.Name
	}
	if r.Type != nil {
		p["type"] = *r.Type
	}
	if r.DurationDays != nil {
		if *r.DurationDays <= 0 {
			return nil, utils.BadRequest("durationDays must be positive")
		}
		p["durationDays"] = *r.DurationDays
	}
	if r.Price != nil {
		if *r.Price < 0 {
			return nil, utils.BadRequest("price cannot be negative")
		}
		p["price"] = *r.Price
	}
	if r.Description != nil {
		p["description"] = *r.Description
	}
	if r.IsActive != nil {
		p["isActive"] = *r.IsActive
	}
	return p, nil
}

type DefaultPlanService struct {
	Repo   repository.PlanRepository
	clock  utils.Clock
	logger *zap.Logger
}

func NewDefaultPlanService(repo repository.PlanRepository, clock utils.Clock, logger *zap.Logger) *DefaultPlanService {
	return &DefaultPlanService{Repo: repo, clock: clock, logger: logger}
}

func (s *DefaultPlanService) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	plans, err := s.Repo.List(ctx)
	if err != nil {
		return nil, utils.Internal("Failed to fetch subscription plans", err)
	}
	return plans, nil
}

func (s *DefaultPlanService) CreatePlan(ctx context.Context, req CreatePlanRequest) (*models.SubscriptionPlan, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, utils.BadRequest("name is required")
	}
	if req.DurationDays <= 0 {
		return nil, utils.BadRequest("durationDays must be positive")
	}
	now := s.clock.Now().UTC()
	plan := &models.SubscriptionPlan{
		Name:         req.Name,
		Type:         req.Type,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		Description:  req.Description,
		IsActive:     models.BoolValue(req.IsActive),
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}
	if _, err := s.Repo.Create(ctx, plan); err != nil {
		return nil, utils.Internal("Failed to create subscription plan", err)
	}
	s.logger.Info("Subscription plan created", zap.String("planID", plan.ID), zap.String("name", plan.Name))
	return plan, nil
}

func (s *DefaultPlanService) UpdatePlan(ctx context.Context, id string, req UpdatePlanRequest) (*models.SubscriptionPlan, error) {
	patch, err := req.patch()
	if err != nil {
		return nil, err
	}
	patch["updatedAt"] = s.clock.Now().UTC()

	if err := s.Repo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, utils.NotFound("Subscription plan not found")
		}
		return nil, utils.Internal("Failed to update subscription plan", err)
	}
	plan, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.Internal("Failed to fetch subscription plan", err)
	}
	return plan, nil
}

func (s *DefaultPlanService) DeletePlan(ctx context.Context, id string) error {
	if _, err := s.Repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return utils.NotFound("Subscription plan not found")
		}
		return utils.Internal("Failed to delete subscription plan", err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return utils.Internal("Failed to delete subscription plan", err)
	}
	s.logger.Info("Subscription plan deleted", zap.String("planID", id))
	return nil
}
