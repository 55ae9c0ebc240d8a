package user

import (
	"context"

	"ceygo/models"
)

// UserService exposes the console's view of the users collection.
type UserService interface {
	// ListUsers returns up to 100 users newest first. role "all" or "" means any role;
	// status is "active", "inactive" or anything else for both.
	ListUsers(ctx context.Context, role, status string) ([]models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	// ToggleStatus activates or deactivates an account, mirroring into the driver
	// profile when the account is a driver.
	ToggleStatus(ctx context.Context, userID string, isActive bool) error
}
