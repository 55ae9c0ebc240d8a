package subscriptionRepo

import (
	"context"
	"fmt"

	"ceygo/database"
	"ceygo/database/docstore"
	"ceygo/models"
)

// SubscriptionRepository manages driver subscriptions.
type SubscriptionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Subscription, error)
	// ListByDriver returns the driver's subscriptions newest first.
	ListByDriver(ctx context.Context, driverID string) ([]models.Subscription, error)
	Recent(ctx context.Context, limit int) ([]models.Subscription, error)
	ListByStatus(ctx context.Context, status string) ([]models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) (string, error)
	Delete(ctx context.Context, id string) error
}

type StoreSubscriptionRepo struct {
	store docstore.Store
}

func NewStoreSubscriptionRepo(store docstore.Store) SubscriptionRepository {
	return &StoreSubscriptionRepo{store: store}
}

func (r *StoreSubscriptionRepo) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	return docstore.GetAs[models.Subscription](ctx, r.store, database.SubscriptionsCollection, id)
}

func (r *StoreSubscriptionRepo) ListByDriver(ctx context.Context, driverID string) ([]models.Subscription, error) {
	q := docstore.Query{
		Collection: database.SubscriptionsCollection,
		OrderBy:    "createdAt",
		Descending: true,
	}.Where("driverId", docstore.OpEqual, driverID)

	// createdAt is optional on subscriptions written by the apps, so sort in memory
	// rather than let the ordering drop them.
	snaps, err := docstore.QuerySorted(ctx, r.store, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for driver %s: %w", driverID, err)
	}
	return docstore.DecodeAll[models.Subscription](snaps)
}

func (r *StoreSubscriptionRepo) Recent(ctx context.Context, limit int) ([]models.Subscription, error) {
	snaps, err := docstore.QueryOrdered(ctx, r.store, docstore.Query{
		Collection: database.SubscriptionsCollection,
		OrderBy:    "createdAt",
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent subscriptions: %w", err)
	}
	return docstore.DecodeAll[models.Subscription](snaps)
}

func (r *StoreSubscriptionRepo) ListByStatus(ctx context.Context, status string) ([]models.Subscription, error) {
	q := docstore.Query{Collection: database.SubscriptionsCollection}.Where("status", docstore.OpEqual, status)
	snaps, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s subscriptions: %w", status, err)
	}
	return docstore.DecodeAll[models.Subscription](snaps)
}

func (r *StoreSubscriptionRepo) Create(ctx context.Context, sub *models.Subscription) (string, error) {
	id, err := r.store.Create(ctx, database.SubscriptionsCollection, sub.ID, sub)
	if err != nil {
		return "", fmt.Errorf("failed to create subscription: %w", err)
	}
	sub.ID = id
	return id, nil
}

func (r *StoreSubscriptionRepo) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, database.SubscriptionsCollection, id); err != nil {
		return fmt.Errorf("failed to delete subscription %s: %w", id, err)
	}
	return nil
}
