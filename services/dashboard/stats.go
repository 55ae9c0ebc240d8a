package dashboard

import (
	"context"
	"time"

	"ceygo/database/repository"
	"ceygo/models"
	"ceygo/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultDashboardService is the production implementation.
type DefaultDashboardService struct {
	repos    *repository.Repositories
	clock    utils.Clock
	loc      *time.Location
	feedSize int
	logger   *zap.Logger
}

func NewDefaultDashboardService(repos *repository.Repositories, clock utils.Clock, loc *time.Location, feedSize int, logger *zap.Logger) *DefaultDashboardService {
	if loc == nil {
		loc = time.UTC
	}
	if feedSize <= 0 {
		feedSize = DefaultFeedSize
	}
	return &DefaultDashboardService{repos: repos, clock: clock, loc: loc, feedSize: feedSize, logger: logger}
}

// Stats counts users and bookings by scanning them, since their timestamps are stored in
// mixed formats that range filters cannot compare. "Today" and "this month" start at
// midnight in the business location.
func (s *DefaultDashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	now := s.clock.Now().In(s.loc)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)

	var (
		users    []models.User
		bookings []models.Booking
		subs     []models.Subscription
		stats    models.DashboardStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.repos.Users.All(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalDrivers, err = s.repos.Users.CountByRole(gctx, models.RoleDriver)
		return err
	})
	g.Go(func() (err error) {
		bookings, err = s.repos.Bookings.All(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingTransfers, err = s.repos.Transfers.CountByStatus(gctx, models.TransferPending)
		return err
	})
	g.Go(func() (err error) {
		subs, err = s.repos.Subscriptions.ListByStatus(gctx, models.SubscriptionActive)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, utils.Internal("Failed to fetch stats", err)
	}

	stats.TotalUsers = len(users)
	for _, u := range users {
		if !u.CreatedAt.Before(startOfMonth) {
			stats.NewUsersThisMonth++
		}
	}

	stats.TotalBookings = len(bookings)
	for _, b := range bookings {
		switch b.Status {
		case models.BookingInProgress:
			stats.ActiveBookings++
		case models.BookingCompleted:
			stats.TotalRevenue += b.Fare
			if b.CompletedAt != nil && !b.CompletedAt.Before(startOfDay) {
				stats.CompletedTripsToday++
			}
		}
	}

	for _, sub := range subs {
		if sub.ExpiryDate.After(now) {
			stats.ActiveSubscriptions++
		}
	}
	return &stats, nil
}
