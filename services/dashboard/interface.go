package dashboard

import (
	"context"

	"ceygo/models"
)

// DashboardService aggregates the console landing page.
type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	// RecentActivity merges the newest events of each source, newest first.
	RecentActivity(ctx context.Context) ([]models.ActivityItem, error)
}

// perSource is how many items each activity source contributes before merging.
const perSource = 3

const DefaultFeedSize = 15
