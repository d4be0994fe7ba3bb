package ports

import (
	"context"

	"github.com/anurags10/medibook/pkg/domain"
)

// BookingStore defines how the scheduling service persists bookings.
type BookingStore interface {
	// Save creates or replaces the booking with b.ID.
	Save(ctx context.Context, b *domain.Booking) error

	// Get retrieves a booking by id.
	// Returns domain.ErrBookingNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Booking, error)

	// ListByDate returns every booking (any status) on date, ordered by start time.
	ListByDate(ctx context.Context, date string) ([]domain.Booking, error)
}
