package booking

import (
	"context"
	"errors"

	"ceygo/database/docstore"
	"ceygo/database/repository"
	"ceygo/models"
	"ceygo/utils"
)

const listLimit = 100

// BookingService gives the console read access to ride bookings.
type BookingService interface {
	// ListBookings returns up to 100 bookings newest first; status "" or "all" means any.
	ListBookings(ctx context.Context, status string) ([]models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
}

type DefaultBookingService struct {
	Repo repository.BookingRepository
}

func NewDefaultBookingService(repo repository.BookingRepository) *DefaultBookingService {
	return &DefaultBookingService{Repo: repo}
}

func (s *DefaultBookingService) ListBookings(ctx context.Context, status string) ([]models.Booking, error) {
	if status == "all" {
		status = ""
	}
	bookings, err := s.Repo.List(ctx, status, listLimit)
	if err != nil {
		return nil, utils.Internal("Failed to fetch bookings", err)
	}
	return bookings, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, utils.NotFound("Booking not found")
	}
	if err != nil {
		return nil, utils.Internal("Failed to fetch booking", err)
	}
	return b, nil
}
