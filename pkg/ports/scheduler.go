package ports

import (
	"context"

	"github.com/anurags10/medibook/pkg/domain"
)

// SchedulingClient is the contract with the remote scheduling service.
// Every method blocks until the service answers. Failures are *domain.RemoteCallError.
// Implementations must not retry or cache; double-booking is the service's concern.
type SchedulingClient interface {
	QueryAvailability(ctx context.Context, date string, appointmentType domain.AppointmentTypeKey) ([]domain.AvailabilitySlot, error)
	Book(ctx context.Context, req domain.BookingRequest) (domain.BookingConfirmation, error)
	Reschedule(ctx context.Context, req domain.RescheduleRequest) (domain.RescheduleConfirmation, error)
	Cancel(ctx context.Context, req domain.CancelRequest) (domain.CancelConfirmation, error)
}
