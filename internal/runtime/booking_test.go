package runtime_test

import (
	"context"
	"testing"

	"github.com/anurags10/medibook/internal/runtime"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func physical(t *testing.T) domain.AppointmentType {
	t.Helper()
	typ, ok := domain.DefaultCatalog().Lookup(domain.TypePhysical)
	require.True(t, ok)
	return typ
}

func TestBooking_TypeMenu(t *testing.T) {
	m := newMachine()
	out := step(t, m, domain.Idle{}, "I'd like an appointment")
	assert.Equal(t, domain.BookAwaitType{}, out.State)
	for _, typ := range domain.DefaultCatalog().Menu() {
		assert.Contains(t, out.Message, typ.Label)
	}

	// unrecognized choice keeps the menu up
	again := step(t, m, out.State, "dunno")
	assert.Equal(t, domain.BookAwaitType{}, again.State)

	picked := step(t, m, again.State, "3")
	s, ok := picked.State.(domain.BookAwaitDate)
	require.True(t, ok)
	assert.Equal(t, domain.DefaultCatalog().Menu()[2].Key, s.Type.Key)
}

func TestBooking_InvalidDateReprompts(t *testing.T) {
	m := newMachine()
	s := domain.BookAwaitDate{Type: physical(t)}
	out := step(t, m, s, "next week sometime")
	assert.Equal(t, s, out.State)
	assert.Contains(t, out.Message, "YYYY-MM-DD")
}

func TestBooking_AvailabilityFiltersAndCaps(t *testing.T) {
	m := newMachine()
	typ := physical(t)

	out := call(t, m, domain.BookAwaitDate{Type: typ}, "tomorrow")
	assert.Equal(t, domain.AvailabilityCall{Type: typ, Date: "2024-01-15"}, out.Call)

	slots := []domain.AvailabilitySlot{
		{StartTime: "09:00", EndTime: "09:45", Available: false},
		{StartTime: "09:45", EndTime: "10:30", Available: true},
		{StartTime: "10:30", EndTime: "11:15", Available: true},
		{StartTime: "11:15", EndTime: "12:00", Available: false},
		{StartTime: "12:00", EndTime: "12:45", Available: true},
		{StartTime: "12:45", EndTime: "13:30", Available: true},
		{StartTime: "13:30", EndTime: "14:15", Available: true},
		{StartTime: "14:15", EndTime: "15:00", Available: true},
	}
	res := m.Resume(context.Background(), out.Call, domain.RemoteResult{Slots: slots})

	s, ok := res.State.(domain.BookAwaitSlot)
	require.True(t, ok, "got %T", res.State)
	require.Len(t, s.Slots, runtime.MaxListedSlots)
	assert.Equal(t, "09:45", s.Slots[0].StartTime)
	assert.Equal(t, "13:30", s.Slots[4].StartTime)
	for _, slot := range s.Slots {
		assert.True(t, slot.Available)
	}
	assert.Contains(t, res.Message, "1. 09:45 - 10:30")
	assert.Contains(t, res.Message, "5. 13:30 - 14:15")
	assert.NotContains(t, res.Message, "14:15 - 15:00")
}

func TestBooking_NoAvailabilityReturnsToDate(t *testing.T) {
	m := newMachine()
	typ := physical(t)

	out := call(t, m, domain.BookAwaitDate{Type: typ}, "2024-01-20")
	res := m.Resume(context.Background(), out.Call, domain.RemoteResult{Slots: []domain.AvailabilitySlot{
		{StartTime: "09:00", EndTime: "09:45", Available: false},
	}})

	assert.Equal(t, domain.BookAwaitDate{Type: typ}, res.State)
	assert.Contains(t, res.Message, "no availability")
	assert.Contains(t, res.Message, "2024-01-20")
}

func TestBooking_AvailabilityErrorReturnsToDate(t *testing.T) {
	m := newMachine()
	typ := physical(t)

	out := call(t, m, domain.BookAwaitDate{Type: typ}, "today")
	res := m.Resume(context.Background(), out.Call, domain.RemoteResult{
		Err: &domain.RemoteCallError{Op: domain.OpAvailability, StatusCode: 500, Message: "down"},
	})
	assert.Equal(t, domain.BookAwaitDate{Type: typ}, res.State)
}

func TestBooking_SlotSelectionUsesLatestFetch(t *testing.T) {
	m := newMachine()
	typ := physical(t)
	s := domain.BookAwaitSlot{Type: typ, Date: "2024-01-15", Slots: []domain.AvailabilitySlot{
		{StartTime: "09:00", EndTime: "09:45", Available: true},
		{StartTime: "10:00", EndTime: "10:45", Available: true},
	}}

	bad := step(t, m, s, "3")
	assert.Equal(t, s, bad.State)
	assert.Contains(t, bad.Message, "1 to 2")

	byTime := step(t, m, s, "10:00 works")
	assert.Equal(t, domain.BookAwaitName{Selection: domain.Selection{Type: typ, Date: "2024-01-15", Slot: s.Slots[1]}}, byTime.State)
}

func TestBooking_FullFlow(t *testing.T) {
	m := newMachine()
	ctx := context.Background()

	out := step(t, m, domain.Idle{}, "book a physical exam")
	out = call(t, m, out.State, "tomorrow")
	out = m.Resume(ctx, out.Call, domain.RemoteResult{Slots: []domain.AvailabilitySlot{
		{StartTime: "09:00", EndTime: "09:45", Available: true},
	}})
	out = step(t, m, out.State, "1")
	out = step(t, m, out.State, "  Jane Doe ")
	out = step(t, m, out.State, "jane@example.com")
	out = step(t, m, out.State, "555-0100")
	out = call(t, m, out.State, "annual checkup")

	bc, ok := out.Call.(domain.BookCall)
	require.True(t, ok)
	assert.Equal(t, domain.BookingRequest{
		AppointmentType: domain.TypePhysical,
		Date:            "2024-01-15",
		StartTime:       "09:00",
		Patient:         domain.Patient{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0100"},
		Reason:          "annual checkup",
	}, bc.Request)

	conf := domain.BookingConfirmation{BookingID: "APPT-20240115-0900", Status: domain.StatusConfirmed, ConfirmationCode: "C0DE42"}
	done := m.Resume(ctx, out.Call, domain.RemoteResult{Booking: conf})

	assert.Equal(t, domain.StepComplete, done.State.Step())
	assert.True(t, domain.IsTerminal(done.State))
	assert.Contains(t, done.Message, "APPT-20240115-0900")
	assert.Contains(t, done.Message, "C0DE42")
}

func TestBooking_EmptyFieldsReprompt(t *testing.T) {
	m := newMachine()
	sel := domain.Selection{Type: physical(t), Date: "2024-01-15", Slot: domain.AvailabilitySlot{StartTime: "09:00", EndTime: "09:45", Available: true}}

	name := domain.BookAwaitName{Selection: sel}
	assert.Equal(t, name, step(t, m, name, "   ").State)

	email := domain.BookAwaitEmail{Selection: sel, Name: "Jane"}
	assert.Equal(t, email, step(t, m, email, "").State)

	reason := domain.BookAwaitReason{Selection: sel, Patient: domain.Patient{Name: "Jane", Email: "j@x", Phone: "1"}}
	assert.Equal(t, reason, step(t, m, reason, " ").State)
}

func TestBooking_BookFailureKeepsType(t *testing.T) {
	m := newMachine()
	typ := physical(t)
	sel := domain.Selection{Type: typ, Date: "2024-01-15", Slot: domain.AvailabilitySlot{StartTime: "09:00", EndTime: "09:45", Available: true}}
	s := domain.BookAwaitReason{Selection: sel, Patient: domain.Patient{Name: "Jane", Email: "j@x", Phone: "1"}}

	out := call(t, m, s, "checkup")
	res := m.Resume(context.Background(), out.Call, domain.RemoteResult{
		Err: &domain.RemoteCallError{Op: domain.OpBook, StatusCode: 409, Message: "slot already booked"},
	})

	assert.Equal(t, domain.BookAwaitDate{Type: typ}, res.State)
	assert.Contains(t, res.Message, "Sorry")
	assert.NotContains(t, res.Message, "slot already booked")
}

func TestBooking_RepeatedRejectedAnswerIsStable(t *testing.T) {
	m := newMachine()
	s := domain.BookAwaitSlot{Type: physical(t), Date: "2024-01-15", Slots: []domain.AvailabilitySlot{
		{StartTime: "09:00", EndTime: "09:45", Available: true},
	}}
	first := step(t, m, s, "7")
	second := step(t, m, first.State, "7")
	assert.Equal(t, s, first.State)
	assert.Equal(t, first, second)
}
