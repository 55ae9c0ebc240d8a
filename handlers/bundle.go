package handlers

import "ceygo/services/auth"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	AuthService auth.AuthService

	Auth      *AuthHandler
	Users     *UserHandler
	Drivers   *DriverHandler
	Bookings  *BookingHandler
	Transfers *TransferHandler
	Plans     *PlanHandler
	Settings  *SettingsHandler
	Dashboard *DashboardHandler
}
