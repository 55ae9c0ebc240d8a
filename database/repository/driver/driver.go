package driverRepo

import (
	"context"
	"fmt"

	"ceygo/database"
	"ceygo/database/docstore"
	"ceygo/models"
)

// DriverProfileRepository defines methods for driver_profiles access.
type DriverProfileRepository interface {
	// GetByID retrieves a profile; docstore.ErrNotFound when the driver has none.
	GetByID(ctx context.Context, id string) (*models.DriverProfile, error)
	GetMany(ctx context.Context, ids []string) (map[string]models.DriverProfile, error)
	All(ctx context.Context) (map[string]models.DriverProfile, error)
	// RecentlyVerified returns verified profiles, most recently updated first.
	RecentlyVerified(ctx context.Context, limit int) ([]models.DriverProfile, error)
	Update(ctx context.Context, id string, patch map[string]any) error
}

type StoreDriverProfileRepo struct {
	store docstore.Store
}

func NewStoreDriverProfileRepo(store docstore.Store) DriverProfileRepository {
	return &StoreDriverProfileRepo{store: store}
}

func (r *StoreDriverProfileRepo) GetByID(ctx context.Context, id string) (*models.DriverProfile, error) {
	return docstore.GetAs[models.DriverProfile](ctx, r.store, database.DriverProfilesCollection, id)
}

func (r *StoreDriverProfileRepo) GetMany(ctx context.Context, ids []string) (map[string]models.DriverProfile, error) {
	snaps, err := r.store.GetMany(ctx, database.DriverProfilesCollection, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch driver profiles: %w", err)
	}
	return docstore.DecodeMap[models.DriverProfile](snaps)
}

func (r *StoreDriverProfileRepo) All(ctx context.Context) (map[string]models.DriverProfile, error) {
	snaps, err := r.store.Query(ctx, docstore.Query{Collection: database.DriverProfilesCollection})
	if err != nil {
		return nil, fmt.Errorf("failed to list driver profiles: %w", err)
	}
	profiles, err := docstore.DecodeAll[models.DriverProfile](snaps)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.DriverProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	return byID, nil
}

func (r *StoreDriverProfileRepo) RecentlyVerified(ctx context.Context, limit int) ([]models.DriverProfile, error) {
	q := docstore.Query{
		Collection: database.DriverProfilesCollection,
		OrderBy:    "updatedAt",
		Descending: true,
		Limit:      limit,
	}.Where("isVerified", docstore.OpEqual, true)

	snaps, err := docstore.QueryOrdered(ctx, r.store, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch verified drivers: %w", err)
	}
	return docstore.DecodeAll[models.DriverProfile](snaps)
}

func (r *StoreDriverProfileRepo) Update(ctx context.Context, id string, patch map[string]any) error {
	if err := r.store.Update(ctx, database.DriverProfilesCollection, id, patch); err != nil {
		return fmt.Errorf("failed to update driver profile %s: %w", id, err)
	}
	return nil
}
