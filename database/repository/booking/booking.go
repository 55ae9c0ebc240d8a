package bookingRepo

import (
	"context"
	"fmt"

	"ceygo/database"
	"ceygo/database/docstore"
	"ceygo/models"
)

// BookingRepository is read-only: bookings are written by the booking system.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// List returns bookings newest first, optionally restricted to one status.
	List(ctx context.Context, status string, limit int) ([]models.Booking, error)
	All(ctx context.Context) ([]models.Booking, error)
	// RecentByStatus returns bookings in status, newest first by orderField.
	RecentByStatus(ctx context.Context, status, orderField string, limit int) ([]models.Booking, error)
}

type StoreBookingRepo struct {
	store docstore.Store
}

func NewStoreBookingRepo(store docstore.Store) BookingRepository {
	return &StoreBookingRepo{store: store}
}

func (r *StoreBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return docstore.GetAs[models.Booking](ctx, r.store, database.BookingsCollection, id)
}

func (r *StoreBookingRepo) List(ctx context.Context, status string, limit int) ([]models.Booking, error) {
	return r.RecentByStatus(ctx, status, "createdAt", limit)
}

func (r *StoreBookingRepo) All(ctx context.Context) ([]models.Booking, error) {
	snaps, err := r.store.Query(ctx, docstore.Query{Collection: database.BookingsCollection})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return docstore.DecodeAll[models.Booking](snaps)
}

func (r *StoreBookingRepo) RecentByStatus(ctx context.Context, status, orderField string, limit int) ([]models.Booking, error) {
	q := docstore.Query{
		Collection: database.BookingsCollection,
		OrderBy:    orderField,
		Descending: true,
		Limit:      limit,
	}
	if status != "" {
		q = q.Where("status", docstore.OpEqual, status)
	}

	snaps, err := docstore.QueryOrdered(ctx, r.store, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	return docstore.DecodeAll[models.Booking](snaps)
}
