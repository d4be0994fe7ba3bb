package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/anurags10/medibook/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReschedule_FullFlow(t *testing.T) {
	m := newMachine()

	out := step(t, m, domain.Idle{}, "I need to reschedule")
	assert.Equal(t, domain.RescheduleAwaitBookingID{}, out.State)

	out = step(t, m, out.State, "   ")
	assert.Equal(t, domain.RescheduleAwaitBookingID{}, out.State, "empty id is rejected")

	out = step(t, m, out.State, " APPT-20240115-0900 ")
	assert.Equal(t, domain.RescheduleAwaitDate{BookingID: "APPT-20240115-0900"}, out.State)

	out = step(t, m, out.State, "sometime soon")
	assert.Equal(t, domain.RescheduleAwaitDate{BookingID: "APPT-20240115-0900"}, out.State)

	out = step(t, m, out.State, "2024-01-16")
	assert.Equal(t, domain.RescheduleAwaitTime{BookingID: "APPT-20240115-0900", Date: "2024-01-16"}, out.State)

	out = step(t, m, out.State, "afternoon")
	assert.Equal(t, domain.StepRescheduleTime, out.State.Step())

	out = call(t, m, out.State, "at 9:30")
	assert.Equal(t, domain.RescheduleCall{Request: domain.RescheduleRequest{
		BookingID: "APPT-20240115-0900", Date: "2024-01-16", StartTime: "09:30",
	}}, out.Call)

	conf := domain.RescheduleConfirmation{BookingID: "APPT-20240116-0930", Status: domain.StatusRescheduled, PreviousBookingID: "APPT-20240115-0900"}
	done := m.Resume(context.Background(), out.Call, domain.RemoteResult{Reschedule: conf})

	assert.Equal(t, domain.RescheduleComplete{Confirmation: conf}, done.State)
	assert.Contains(t, done.Message, "APPT-20240116-0930")
	assert.Contains(t, done.Message, "APPT-20240115-0900")
}

func TestReschedule_FailureResets(t *testing.T) {
	m := newMachine()
	out := call(t, m, domain.RescheduleAwaitTime{BookingID: "X", Date: "2024-01-16"}, "10:00")

	res := m.Resume(context.Background(), out.Call, domain.RemoteResult{Err: errors.New("connection refused")})
	assert.Equal(t, domain.Idle{}, res.State)
	require.NotEmpty(t, res.Message)
}
