package testutils

import (
	"context"
	"time"

	"github.com/anurags10/medibook/pkg/domain"
	"github.com/stretchr/testify/mock"
)

// MockScheduler is a testify mock of ports.SchedulingClient.
type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) QueryAvailability(ctx context.Context, date string, typ domain.AppointmentTypeKey) ([]domain.AvailabilitySlot, error) {
	args := m.Called(ctx, date, typ)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilitySlot), args.Error(1)
}

func (m *MockScheduler) Book(ctx context.Context, req domain.BookingRequest) (domain.BookingConfirmation, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.BookingConfirmation), args.Error(1)
}

func (m *MockScheduler) Reschedule(ctx context.Context, req domain.RescheduleRequest) (domain.RescheduleConfirmation, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.RescheduleConfirmation), args.Error(1)
}

func (m *MockScheduler) Cancel(ctx context.Context, req domain.CancelRequest) (domain.CancelConfirmation, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.CancelConfirmation), args.Error(1)
}

// Slots builds available slots of the given length starting at each HH:mm time.
func Slots(minutes int, starts ...string) []domain.AvailabilitySlot {
	out := make([]domain.AvailabilitySlot, 0, len(starts))
	for _, s := range starts {
		start, err := time.Parse("15:04", s)
		if err != nil {
			panic(err)
		}
		out = append(out, domain.AvailabilitySlot{
			StartTime: s,
			EndTime:   start.Add(time.Duration(minutes) * time.Minute).Format("15:04"),
			Available: true,
		})
	}
	return out
}
