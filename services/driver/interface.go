package driver

import (
	"context"
	"time"

	"ceygo/models"
)

// DriverService manages drivers across the users and driver_profiles collections.
type DriverService interface {
	// ListDrivers returns merged drivers, newest first. status is "", "active" or "inactive".
	ListDrivers(ctx context.Context, status string) ([]models.Driver, error)
	GetDriver(ctx context.Context, driverID string) (*models.Driver, error)

	// SetActive writes users.isActive and mirrors it into driver_profiles.isAvailable.
	SetActive(ctx context.Context, driverID string, isActive bool) error
	// SetVerified writes the verification state on both records. A rejection needs a reason.
	SetVerified(ctx context.Context, driverID string, verified bool, reason string) error

	ListSubscriptions(ctx context.Context, driverID string) ([]models.Subscription, error)
	GrantSubscription(ctx context.Context, driverID string, req GrantRequest) (*GrantResult, error)
	RevokeSubscription(ctx context.Context, driverID, subscriptionID string) error
}

// GrantRequest is an admin grant of a plan to a driver.
type GrantRequest struct {
	PlanID        string `json:"planId" binding:"required"`
	PaymentMethod string `json:"paymentMethod"`
	TransactionID string `json:"transactionId"`
}

type GrantResult struct {
	SubscriptionID string    `json:"subscriptionId"`
	ExpiryDate     time.Time `json:"expiryDate"`
}

// Driver list filters.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)
