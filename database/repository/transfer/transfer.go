package transferRepo

import (
	"context"
	"fmt"

	"ceygo/database"
	"ceygo/database/docstore"
	"ceygo/models"
)

// TransferRepository manages bank transfer requests.
type TransferRepository interface {
	GetByID(ctx context.Context, id string) (*models.BankTransfer, error)
	// List returns transfers newest first, optionally restricted to one status.
	List(ctx context.Context, status string, limit int) ([]models.BankTransfer, error)
	Create(ctx context.Context, t *models.BankTransfer) (string, error)
	Update(ctx context.Context, id string, patch map[string]any) error
	CountByStatus(ctx context.Context, status string) (int, error)
}

type StoreTransferRepo struct {
	store docstore.Store
}

func NewStoreTransferRepo(store docstore.Store) TransferRepository {
	return &StoreTransferRepo{store: store}
}

func (r *StoreTransferRepo) GetByID(ctx context.Context, id string) (*models.BankTransfer, error) {
	return docstore.GetAs[models.BankTransfer](ctx, r.store, database.BankTransfersCollection, id)
}

func (r *StoreTransferRepo) List(ctx context.Context, status string, limit int) ([]models.BankTransfer, error) {
	q := docstore.Query{
		Collection: database.BankTransfersCollection,
		OrderBy:    "createdAt",
		Descending: true,
		Limit:      limit,
	}
	if status != "" {
		q = q.Where("status", docstore.OpEqual, status)
	}

	snaps, err := docstore.QueryOrdered(ctx, r.store, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank transfers: %w", err)
	}
	return docstore.DecodeAll[models.BankTransfer](snaps)
}

func (r *StoreTransferRepo) Create(ctx context.Context, t *models.BankTransfer) (string, error) {
	id, err := r.store.Create(ctx, database.BankTransfersCollection, "", t)
	if err != nil {
		return "", fmt.Errorf("failed to create bank transfer: %w", err)
	}
	t.ID = id
	return id, nil
}

func (r *StoreTransferRepo) Update(ctx context.Context, id string, patch map[string]any) error {
	if err := r.store.Update(ctx, database.BankTransfersCollection, id, patch); err != nil {
		return fmt.Errorf("failed to update bank transfer %s: %w", id, err)
	}
	return nil
}

func (r *StoreTransferRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	q := docstore.Query{Collection: database.BankTransfersCollection}.Where("status", docstore.OpEqual, status)
	n, err := r.store.Count(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to count bank transfers: %w", err)
	}
	return n, nil
}
