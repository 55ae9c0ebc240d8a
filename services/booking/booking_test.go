package booking

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"ceygo/database"
	"ceygo/database/docstore"
	"ceygo/database/repository"
	"ceygo/models"
	"ceygo/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, opts ...docstore.MemoryOption) (*DefaultBookingService, docstore.Store) {
	t.Helper()
	store := docstore.NewMemoryStore(opts...)
	repos := repository.NewRepositories(store)
	return NewDefaultBookingService(repos.Bookings), store
}

func seedBooking(t *testing.T, store docstore.Store, id, status string, createdAt time.Time) {
	t.Helper()
	_, err := store.Create(context.Background(), database.BookingsCollection, id, models.Booking{
		CustomerID:      "c1",
		PickupLocation:  "Fort",
		DropoffLocation: "Kandy",
		Status:          status,
		Fare:            1500,
		CreatedAt:       createdAt,
	})
	require.NoError(t, err)
}

func TestListBookings(t *testing.T) {
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status string
		want   []string
	}{
		{name: "no filter", status: "", want: []string{"b3", "b2", "b1"}},
		{name: "all means no filter", status: "all", want: []string{"b3", "b2", "b1"}},
		{name: "pending only", status: models.BookingPending, want: []string{"b3", "b1"}},
		{name: "unknown status", status: "teleported", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Filtered and ordered queries must fall back to an in-memory sort.
			svc, store := newService(t, docstore.WithoutCompositeIndexes())
			seedBooking(t, store, "b1", models.BookingPending, base)
			seedBooking(t, store, "b2", models.BookingCompleted, base.Add(time.Hour))
			seedBooking(t, store, "b3", models.BookingPending, base.Add(2*time.Hour))

			got, err := svc.ListBookings(context.Background(), tt.status)
			require.NoError(t, err)

			var ids []string
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestGetBooking(t *testing.T) {
	svc, store := newService(t)
	seedBooking(t, store, "b1", models.BookingCompleted, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))

	b, err := svc.GetBooking(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", b.ID)
	assert.Equal(t, "Kandy", b.DropoffLocation)
	assert.Equal(t, 1500.0, b.Fare)

	_, err = svc.GetBooking(context.Background(), "missing")
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Booking not found", appErr.Message)
}
