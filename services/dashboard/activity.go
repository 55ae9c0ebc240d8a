package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ceygo/models"
	"ceygo/utils"

	"golang.org/x/sync/errgroup"
)

func (s *DefaultDashboardService) RecentActivity(ctx context.Context) ([]models.ActivityItem, error) {
	var (
		users     []models.User
		verified  []models.DriverProfile
		subs      []models.Subscription
		completed []models.Booking
		pending   []models.Booking
		confirmed []models.Booking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.repos.Users.Recent(gctx, perSource)
		return err
	})
	g.Go(func() (err error) {
		verified, err = s.repos.DriverProfile.RecentlyVerified(gctx, perSource)
		return err
	})
	g.Go(func() (err error) {
		subs, err = s.repos.Subscriptions.Recent(gctx, perSource)
		return err
	})
	g.Go(func() (err error) {
		completed, err = s.repos.Bookings.RecentByStatus(gctx, models.BookingCompleted, "completedAt", perSource)
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.repos.Bookings.RecentByStatus(gctx, models.BookingPending, "createdAt", perSource)
		return err
	})
	g.Go(func() (err error) {
		confirmed, err = s.repos.Bookings.RecentByStatus(gctx, models.BookingConfirmed, "createdAt", perSource)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, utils.Internal("Failed to fetch recent activity", err)
	}
	open := newestBookings(append(pending, confirmed...), perSource)

	// One batched lookup per collection for every referenced account.
	var userIDs, driverIDs []string
	for _, b := range completed {
		userIDs = append(userIDs, b.CustomerID)
		if b.DriverID != "" {
			driverIDs = append(driverIDs, b.DriverID)
		}
	}
	for _, b := range open {
		userIDs = append(userIDs, b.CustomerID)
	}
	for _, sub := range subs {
		driverIDs = append(driverIDs, sub.DriverID)
	}
	customers, err := s.repos.Users.GetMany(ctx, unique(userIDs))
	if err != nil {
		return nil, utils.Internal("Failed to fetch recent activity", err)
	}
	drivers, err := s.repos.DriverProfile.GetMany(ctx, unique(driverIDs))
	if err != nil {
		return nil, utils.Internal("Failed to fetch recent activity", err)
	}

	items := make([]models.ActivityItem, 0, len(users)+len(verified)+len(subs)+len(completed)+len(open))
	for _, u := range users {
		items = append(items, signupItem(u))
	}
	for _, p := range verified {
		items = append(items, verifiedItem(p))
	}
	for _, sub := range subs {
		items = append(items, subscriptionItem(sub, drivers))
	}
	for _, b := range completed {
		items = append(items, tripItem(b, customers, drivers))
	}
	for _, b := range open {
		items = append(items, bookingItem(b, customers))
	}

	sortActivity(items)
	if len(items) > s.feedSize {
		items = items[:s.feedSize]
	}
	return items, nil
}

// sortActivity orders newest first; equal timestamps fall back to ascending id.
func sortActivity(items []models.ActivityItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Timestamp.Equal(items[j].Timestamp) {
			return items[i].Timestamp.After(items[j].Timestamp)
		}
		return items[i].ID < items[j].ID
	})
}

func newestBookings(bookings []models.Booking, limit int) []models.Booking {
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].ID < bookings[j].ID
	})
	if len(bookings) > limit {
		bookings = bookings[:limit]
	}
	return bookings
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func signupItem(u models.User) models.ActivityItem {
	role := firstNonEmpty(u.Role, "user")
	return models.ActivityItem{
		ID:          u.ID,
		Type:        models.ActivityUserSignup,
		Title:       fmt.Sprintf("New %s registered", role),
		Description: firstNonEmpty(u.Name, u.Email),
		Timestamp:   u.CreatedAt,
		Icon:        "user",
		Color:       "blue",
		Metadata:    map[string]any{"userId": u.ID, "role": role, "email": u.Email},
	}
}

func verifiedItem(p models.DriverProfile) models.ActivityItem {
	return models.ActivityItem{
		ID:          p.ID,
		Type:        models.ActivityDriverVerified,
		Title:       "Driver verified",
		Description: firstNonEmpty(p.DriverName, p.Email),
		Timestamp:   timeOrZero(p.UpdatedAt),
		Icon:        "check",
		Color:       "green",
		Metadata:    map[string]any{"driverId": p.ID},
	}
}

func subscriptionItem(sub models.Subscription, drivers map[string]models.DriverProfile) models.ActivityItem {
	name := "Driver"
	if p, ok := drivers[sub.DriverID]; ok && p.DriverName != "" {
		name = p.DriverName
	}
	return models.ActivityItem{
		ID:          sub.ID,
		Type:        models.ActivitySubscription,
		Title:       "New subscription",
		Description: fmt.Sprintf("%s - %s", name, sub.PassType),
		Timestamp:   sub.CreatedAt,
		Icon:        "ticket",
		Color:       "purple",
		Metadata: map[string]any{
			"driverId":   sub.DriverID,
			"passType":   sub.PassType,
			"amount":     sub.Amount,
			"expiryDate": sub.ExpiryDate,
		},
	}
}

func tripItem(b models.Booking, customers map[string]models.User, drivers map[string]models.DriverProfile) models.ActivityItem {
	customer := "Customer"
	if u, ok := customers[b.CustomerID]; ok {
		customer = firstNonEmpty(u.Name, u.Email, customer)
	}
	driverName := "Driver"
	if p, ok := drivers[b.DriverID]; ok && p.DriverName != "" {
		driverName = p.DriverName
	}
	ts := b.CreatedAt
	if b.CompletedAt != nil {
		ts = *b.CompletedAt
	}
	return models.ActivityItem{
		ID:          b.ID,
		Type:        models.ActivityTripCompleted,
		Title:       "Trip completed",
		Description: fmt.Sprintf("%s with %s", customer, driverName),
		Timestamp:   ts,
		Icon:        "flag",
		Color:       "green",
		Metadata: map[string]any{
			"customerId": b.CustomerID,
			"driverId":   b.DriverID,
			"fare":       b.Fare,
		},
	}
}

func bookingItem(b models.Booking, customers map[string]models.User) models.ActivityItem {
	customer := "Customer"
	if u, ok := customers[b.CustomerID]; ok {
		customer = firstNonEmpty(u.Name, u.Email, customer)
	}
	return models.ActivityItem{
		ID:          b.ID,
		Type:        models.ActivityBooking,
		Title:       fmt.Sprintf("Booking %s", firstNonEmpty(b.Status, "created")),
		Description: fmt.Sprintf("%s: %s → %s", customer, firstNonEmpty(b.PickupLocation, "N/A"), firstNonEmpty(b.DropoffLocation, "N/A")),
		Timestamp:   b.CreatedAt,
		Icon:        "calendar",
		Color:       "orange",
		Metadata: map[string]any{
			"customerId": b.CustomerID,
			"status":     b.Status,
		},
	}
}
