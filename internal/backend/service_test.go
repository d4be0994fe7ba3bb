package backend_test

import (
	"context"
	"testing"
	"time"

	"github.com/anurags10/medibook/internal/backend"
	"github.com/anurags10/medibook/pkg/adapters/memory"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jane = domain.Patient{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0100"}

func newService(t *testing.T) *backend.Service {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, 1, 14, 8, 0, 0, 0, time.UTC) }
	return backend.NewService(ledger.NewManager(memory.NewStore()), backend.WithClock(clock))
}

func book(t *testing.T, svc *backend.Service, typ domain.AppointmentTypeKey, date, start string) domain.BookingConfirmation {
	t.Helper()
	out, err := svc.Book(context.Background(), domain.BookingRequest{
		AppointmentType: typ, Date: date, StartTime: start, Patient: jane,
	})
	require.NoError(t, err)
	return out
}

func TestService_AvailabilityGrid(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		typ   domain.AppointmentTypeKey
		count int
		last  string
	}{
		{domain.TypeConsultation, 16, "16:30"},
		{domain.TypeFollowUp, 32, "16:45"},
		{domain.TypePhysical, 10, "15:45"},
		{domain.TypeSpecialist, 8, "16:00"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			slots, err := svc.Availability(ctx, "2024-01-15", tt.typ)
			require.NoError(t, err)
			require.Len(t, slots, tt.count)
			assert.Equal(t, "09:00", slots[0].StartTime)
			assert.Equal(t, tt.last, slots[len(slots)-1].StartTime)
			for _, s := range slots {
				assert.True(t, s.Available)
			}
		})
	}
}

func TestService_AvailabilityValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Availability(ctx, "2024-01-15", "massage")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.Availability(ctx, "15/01/2024", domain.TypePhysical)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestService_BookMarksOverlappingSlots(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	out := book(t, svc, domain.TypePhysical, "2024-01-15", "09:00")
	assert.Equal(t, "APPT-20240115-0900", out.BookingID)
	assert.Equal(t, domain.StatusConfirmed, out.Status)
	assert.Len(t, out.ConfirmationCode, 8)

	// a 09:00-09:45 physical blocks the 09:00 and 09:30 consultations
	slots, err := svc.Availability(ctx, "2024-01-15", domain.TypeConsultation)
	require.NoError(t, err)
	assert.False(t, slots[0].Available)
	assert.False(t, slots[1].Available)
	assert.True(t, slots[2].Available)
}

func TestService_DoubleBookingRejected(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	book(t, svc, domain.TypeConsultation, "2024-01-15", "10:00")
	_, err := svc.Book(ctx, domain.BookingRequest{
		AppointmentType: domain.TypeFollowUp, Date: "2024-01-15", StartTime: "10:15", Patient: jane,
	})
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
}

func TestService_BookValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.BookingRequest
		want error
	}{
		{"missing patient", domain.BookingRequest{AppointmentType: domain.TypePhysical, Date: "2024-01-15", StartTime: "09:00"}, domain.ErrInvalidRequest},
		{"bad time", domain.BookingRequest{AppointmentType: domain.TypePhysical, Date: "2024-01-15", StartTime: "nine", Patient: jane}, domain.ErrInvalidRequest},
		{"before opening", domain.BookingRequest{AppointmentType: domain.TypePhysical, Date: "2024-01-15", StartTime: "08:30", Patient: jane}, domain.ErrSlotUnavailable},
		{"runs past closing", domain.BookingRequest{AppointmentType: domain.TypeSpecialist, Date: "2024-01-15", StartTime: "16:30", Patient: jane}, domain.ErrSlotUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Book(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_ConcurrentBookingsOneWins(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := svc.Book(ctx, domain.BookingRequest{
				AppointmentType: domain.TypeSpecialist, Date: "2024-01-15", StartTime: "11:00", Patient: jane,
			})
			errs <- err
		}()
	}

	ok := 0
	for i := 0; i < n; i++ {
		if err := <-errs; err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestService_Reschedule(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	orig := book(t, svc, domain.TypePhysical, "2024-01-15", "09:00")

	out, err := svc.Reschedule(ctx, domain.RescheduleRequest{BookingID: orig.BookingID, Date: "2024-01-16", StartTime: "9:45"})
	require.NoError(t, err)
	assert.Equal(t, domain.RescheduleConfirmation{
		BookingID:         "APPT-20240116-0945",
		Status:            domain.StatusRescheduled,
		PreviousBookingID: "APPT-20240115-0900",
	}, out)

	// the original slot is free again
	slots, err := svc.Availability(ctx, "2024-01-15", domain.TypePhysical)
	require.NoError(t, err)
	assert.True(t, slots[0].Available)

	// the old id can no longer be moved or cancelled
	_, err = svc.Reschedule(ctx, domain.RescheduleRequest{BookingID: orig.BookingID, Date: "2024-01-17", StartTime: "10:00"})
	assert.ErrorIs(t, err, domain.ErrBookingInactive)
	_, err = svc.Cancel(ctx, domain.CancelRequest{BookingID: orig.BookingID})
	assert.ErrorIs(t, err, domain.ErrBookingInactive)
}

func TestService_RescheduleWithinOwnSlot(t *testing.T) {
	svc := newService(t)
	orig := book(t, svc, domain.TypePhysical, "2024-01-15", "09:00")

	// shifting by 15 minutes overlaps only the booking being moved
	out, err := svc.Reschedule(context.Background(), domain.RescheduleRequest{BookingID: orig.BookingID, Date: "2024-01-15", StartTime: "09:15"})
	require.NoError(t, err)
	assert.Equal(t, "APPT-20240115-0915", out.BookingID)
}

func TestService_RescheduleUnknown(t *testing.T) {
	svc := newService(t)
	_, err := svc.Reschedule(context.Background(), domain.RescheduleRequest{BookingID: "APPT-nope", Date: "2024-01-16", StartTime: "10:00"})
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestService_CancelAndRebookSuffix(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	first := book(t, svc, domain.TypeConsultation, "2024-01-15", "09:00")

	out, err := svc.Cancel(ctx, domain.CancelRequest{BookingID: first.BookingID, Reason: domain.NoReasonGiven})
	require.NoError(t, err)
	assert.Equal(t, domain.CancelConfirmation{BookingID: "APPT-20240115-0900", Status: domain.StatusCancelled}, out)

	second := book(t, svc, domain.TypeConsultation, "2024-01-15", "09:00")
	assert.Equal(t, "APPT-20240115-0900-2", second.BookingID)

	_, err = svc.Cancel(ctx, domain.CancelRequest{BookingID: "unknown"})
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}
