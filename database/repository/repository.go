package repository

import (
	"ceygo/database/docstore"
	bookingRepo "ceygo/database/repository/booking"
	driverRepo "ceygo/database/repository/driver"
	notificationRepo "ceygo/database/repository/notification"
	settingsRepo "ceygo/database/repository/settings"
	subscriptionRepo "ceygo/database/repository/subscription"
	transferRepo "ceygo/database/repository/transfer"
	userRepo "ceygo/database/repository/user"
)

// Re-export the repository interfaces.
type (
	UserRepository          = userRepo.UserRepository
	UserSearchCriteria      = userRepo.UserSearchCriteria
	DriverProfileRepository = driverRepo.DriverProfileRepository
	BookingRepository       = bookingRepo.BookingRepository
	PlanRepository          = subscriptionRepo.PlanRepository
	SubscriptionRepository  = subscriptionRepo.SubscriptionRepository
	TransferRepository      = transferRepo.TransferRepository
	NotificationRepository  = notificationRepo.NotificationRepository
	SettingsRepository      = settingsRepo.SettingsRepository
)

// Repositories bundles every repository over one store, which also serves as the
// transactor for multi-document writes.
type Repositories struct {
	Store         docstore.Store
	Users         UserRepository
	DriverProfile DriverProfileRepository
	Bookings      BookingRepository
	Plans         PlanRepository
	Subscriptions SubscriptionRepository
	Transfers     TransferRepository
	Notifications NotificationRepository
	Settings      SettingsRepository
}

// NewRepositories wires all repositories to store.
func NewRepositories(store docstore.Store) *Repositories {
	return &Repositories{
		Store:         store,
		Users:         userRepo.NewStoreUserRepo(store),
		DriverProfile: driverRepo.NewStoreDriverProfileRepo(store),
		Bookings:      bookingRepo.NewStoreBookingRepo(store),
		Plans:         subscriptionRepo.NewStorePlanRepo(store),
		Subscriptions: subscriptionRepo.NewStoreSubscriptionRepo(store),
		Transfers:     transferRepo.NewStoreTransferRepo(store),
		Notifications: notificationRepo.NewStoreNotificationRepo(store),
		Settings:      settingsRepo.NewStoreSettingsRepo(store),
	}
}
