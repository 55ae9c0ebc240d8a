package userRepo

import (
	"context"
	"fmt"

	"ceygo/database"
	"ceygo/database/docstore"
	"ceygo/models"
)

// StoreUserRepo implements UserRepository on a document store.
type StoreUserRepo struct {
	store docstore.Store
}

// NewStoreUserRepo creates a new instance of UserRepository.
func NewStoreUserRepo(store docstore.Store) UserRepository {
	return &StoreUserRepo{store: store}
}

func (r *StoreUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return docstore.GetAs[models.User](ctx, r.store, database.UsersCollection, id)
}

func (r *StoreUserRepo) GetMany(ctx context.Context, ids []string) (map[string]models.User, error) {
	snaps, err := r.store.GetMany(ctx, database.UsersCollection, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return docstore.DecodeMap[models.User](snaps)
}

func (r *StoreUserRepo) Search(ctx context.Context, criteria UserSearchCriteria) ([]models.User, error) {
	q := docstore.Query{
		Collection: database.UsersCollection,
		OrderBy:    "createdAt",
		Descending: true,
		Limit:      criteria.Limit,
	}
	if criteria.Role != "" {
		q = q.Where("role", docstore.OpEqual, criteria.Role)
	}
	// Accounts without an isActive flag never match an equality filter, so the
	// activation state is applied after the fetch.
	if criteria.IsActive != nil {
		q.Limit = 0
	}

	snaps, err := docstore.QueryOrdered(ctx, r.store, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	users, err := docstore.DecodeAll[models.User](snaps)
	if err != nil {
		return nil, err
	}
	if criteria.IsActive == nil {
		return users, nil
	}

	filtered := users[:0]
	for _, u := range users {
		if u.Active() == *criteria.IsActive {
			filtered = append(filtered, u)
		}
	}
	if criteria.Limit > 0 && len(filtered) > criteria.Limit {
		filtered = filtered[:criteria.Limit]
	}
	return filtered, nil
}

func (r *StoreUserRepo) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	q := docstore.Query{
		Collection: database.UsersCollection,
		OrderBy:    "createdAt",
		Descending: true,
	}.Where("role", docstore.OpEqual, role)

	snaps, err := docstore.QuerySorted(ctx, r.store, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s users: %w", role, err)
	}
	return docstore.DecodeAll[models.User](snaps)
}

func (r *StoreUserRepo) All(ctx context.Context) ([]models.User, error) {
	snaps, err := r.store.Query(ctx, docstore.Query{Collection: database.UsersCollection})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return docstore.DecodeAll[models.User](snaps)
}

func (r *StoreUserRepo) Recent(ctx context.Context, limit int) ([]models.User, error) {
	snaps, err := docstore.QueryOrdered(ctx, r.store, docstore.Query{
		Collection: database.UsersCollection,
		OrderBy:    "createdAt",
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent users: %w", err)
	}
	return docstore.DecodeAll[models.User](snaps)
}

func (r *StoreUserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	q := docstore.Query{Collection: database.UsersCollection}
	if role != "" {
		q = q.Where("role", docstore.OpEqual, role)
	}
	n, err := r.store.Count(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *StoreUserRepo) Update(ctx context.Context, id string, patch map[string]any) error {
	if err := r.store.Update(ctx, database.UsersCollection, id, patch); err != nil {
		return fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return nil
}
