package userRepo

import (
	"context"

	"ceygo/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by id; docstore.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetMany retrieves the existing users among ids, keyed by id.
	GetMany(ctx context.Context, ids []string) (map[string]models.User, error)
	// Search lists users newest first.
	Search(ctx context.Context, criteria UserSearchCriteria) ([]models.User, error)
	// ListByRole returns every user with role, newest first. Accounts without a
	// createdAt are included, after the dated ones.
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	// All returns every user, unordered.
	All(ctx context.Context) ([]models.User, error)
	// Recent returns the newest users.
	Recent(ctx context.Context, limit int) ([]models.User, error)
	// CountByRole counts users, optionally restricted to one role.
	CountByRole(ctx context.Context, role string) (int, error)
	// Update patches fields; keys may be dotted paths.
	Update(ctx context.Context, id string, patch map[string]any) error
}

// UserSearchCriteria holds the list filters of the console.
type UserSearchCriteria struct {
	Role     string // empty for all roles
	IsActive *bool  // nil for any state; a missing flag counts as active
	Limit    int
}
