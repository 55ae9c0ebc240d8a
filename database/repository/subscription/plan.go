package subscriptionRepo

import (
	"context"
	"fmt"

	"ceygo/database"
	"ceygo/database/docstore"
	"ceygo/models"
)

// PlanRepository manages the subscription plan catalog.
type PlanRepository interface {
	GetByID(ctx context.Context, id string) (*models.SubscriptionPlan, error)
	List(ctx context.Context) ([]models.SubscriptionPlan, error)
	// Create stores plan and returns its new id.
	Create(ctx context.Context, plan *models.SubscriptionPlan) (string, error)
	Update(ctx context.Context, id string, patch map[string]any) error
	Delete(ctx context.Context, id string) error
}

type StorePlanRepo struct {
	store docstore.Store
}

func NewStorePlanRepo(store docstore.Store) PlanRepository {
	return &StorePlanRepo{store: store}
}

func (r *StorePlanRepo) GetByID(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	return docstore.GetAs[models.SubscriptionPlan](ctx, r.store, database.PlansCollection, id)
}

func (r *StorePlanRepo) List(ctx context.Context) ([]models.SubscriptionPlan, error) {
	snaps, err := r.store.Query(ctx, docstore.Query{Collection: database.PlansCollection})
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return docstore.DecodeAll[models.SubscriptionPlan](snaps)
}

func (r *StorePlanRepo) Create(ctx context.Context, plan *models.SubscriptionPlan) (string, error) {
	id, err := r.store.Create(ctx, database.PlansCollection, "", plan)
	if err != nil {
		return "", fmt.Errorf("failed to create plan: %w", err)
	}
	plan.ID = id
	return id, nil
}

func (r *StorePlanRepo) Update(ctx context.Context, id string, patch map[string]any) error {
	if err := r.store.Update(ctx, database.PlansCollection, id, patch); err != nil {
		return fmt.Errorf("failed to update plan %s: %w", id, err)
	}
	return nil
}

func (r *StorePlanRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, database.PlansCollection, id); err != nil {
		return fmt.Errorf("failed to delete plan %s: %w", id, err)
	}
	return nil
}
