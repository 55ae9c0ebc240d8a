package models

import "time"

type DashboardStats struct {
	TotalUsers          int     `json:"totalUsers"`
	TotalDrivers        int     `json:"totalDrivers"`
	TotalBookings       int     `json:"totalBookings"`
	ActiveBookings      int     `json:"activeBookings"`
	TotalRevenue        float64 `json:"totalRevenue"`
	PendingTransfers    int     `json:"pendingTransfers"`
	NewUsersThisMonth   int     `json:"newUsersThisMonth"`
	CompletedTripsToday int     `json:"completedTripsToday"`
	ActiveSubscriptions int     `json:"activeSubscriptions"`
}

// Activity feed item types.
const (
	ActivityUserSignup     = "user_signup"
	ActivityDriverVerified = "driver_verified"
	ActivitySubscription   = "subscription"
	ActivityTripCompleted  = "trip_completed"
	ActivityBooking        = "booking"
)

type ActivityItem struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Timestamp   time.Time      `json:"timestamp"`
	Icon        string         `json:"icon"`
	Color       string         `json:"color"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
