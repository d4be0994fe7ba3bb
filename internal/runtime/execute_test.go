package runtime_test

import (
	"context"
	"testing"

	"github.com/anurags10/medibook/internal/runtime"
	"github.com/anurags10/medibook/internal/testutils"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestExecute_DispatchesAndReports(t *testing.T) {
	client := new(testutils.MockScheduler)
	slots := testutils.Slots(45, "09:00")
	client.On("QueryAvailability", mock.Anything, "2024-01-15", domain.TypePhysical).Return(slots, nil)

	fail := &domain.RemoteCallError{Op: domain.OpCancel, StatusCode: 404, Message: "booking not found"}
	client.On("Cancel", mock.Anything, domain.CancelRequest{BookingID: "nope"}).
		Return(domain.CancelConfirmation{}, fail)

	var calls, returns []string
	var lastErr error
	hooks := domain.LifecycleHooks{
		OnRemoteCall: func(ctx context.Context, e *domain.RemoteEvent) {
			calls = append(calls, e.Op)
		},
		OnRemoteReturn: func(ctx context.Context, e *domain.RemoteEvent) {
			returns = append(returns, e.Op)
			lastErr = e.Err
		},
	}
	m := newMachine(runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	res := m.Execute(ctx, client, domain.AvailabilityCall{Type: physical(t), Date: "2024-01-15"})
	assert.NoError(t, res.Err)
	assert.Equal(t, slots, res.Slots)
	assert.Equal(t, "09:45", res.Slots[0].EndTime)

	res = m.Execute(ctx, client, domain.CancelCall{Request: domain.CancelRequest{BookingID: "nope"}})
	assert.ErrorIs(t, res.Err, fail)

	assert.Equal(t, []string{domain.OpAvailability, domain.OpCancel}, calls)
	assert.Equal(t, calls, returns)
	assert.Equal(t, fail, lastErr)
	client.AssertExpectations(t)
}
