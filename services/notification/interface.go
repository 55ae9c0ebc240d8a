package notification

import (
	"context"

	"ceygo/models"
)

// Pusher delivers a push message to one device token.
type Pusher interface {
	Push(ctx context.Context, token, title, body string, data map[string]string) error
}

// NotificationService records in-app notifications and delivers them as pushes.
type NotificationService interface {
	// Record stores n. When ctx carries a transaction the write joins it.
	Record(ctx context.Context, n *models.Notification) error
	// Deliver sends n to the device token as a best-effort push; failures are logged.
	Deliver(ctx context.Context, token string, n models.Notification)
}
