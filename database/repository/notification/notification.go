package notificationRepo

import (
	"context"
	"fmt"

	"ceygo/database"
	"ceygo/database/docstore"
	"ceygo/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (string, error)
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
}

type StoreNotificationRepo struct {
	store docstore.Store
}

func NewStoreNotificationRepo(store docstore.Store) NotificationRepository {
	return &StoreNotificationRepo{store: store}
}

func (r *StoreNotificationRepo) Create(ctx context.Context, n *models.Notification) (string, error) {
	id, err := r.store.Create(ctx, database.NotificationsCollection, n.ID, n)
	if err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}
	n.ID = id
	return id, nil
}

func (r *StoreNotificationRepo) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	q := docstore.Query{
		Collection: database.NotificationsCollection,
		OrderBy:    "createdAt",
		Descending: true,
	}.Where("userId", docstore.OpEqual, userID)

	snaps, err := docstore.QueryOrdered(ctx, r.store, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return docstore.DecodeAll[models.Notification](snaps)
}
