package runtime

import (
	"context"
	"time"

	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ports"
)

// Execute performs call against client and reports it through the lifecycle hooks.
// It never fails: transport and service errors are carried in RemoteResult.Err.
func (m *Machine) Execute(ctx context.Context, client ports.SchedulingClient, call domain.RemoteCall) domain.RemoteResult {
	m.emitRemote(ctx, m.hooks.OnRemoteCall, &domain.RemoteEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRemoteCall},
		Op:        call.Op(),
		Intent:    call.Intent(),
	})

	start := time.Now()
	var res domain.RemoteResult
	switch c := call.(type) {
	case domain.AvailabilityCall:
		res.Slots, res.Err = client.QueryAvailability(ctx, c.Date, c.Type.Key)
	case domain.BookCall:
		res.Booking, res.Err = client.Book(ctx, c.Request)
	case domain.RescheduleCall:
		res.Reschedule, res.Err = client.Reschedule(ctx, c.Request)
	case domain.CancelCall:
		res.Cancel, res.Err = client.Cancel(ctx, c.Request)
	}
	elapsed := time.Since(start)

	m.logger.Info("remote call", "op", call.Op(), "duration", elapsed, "ok", res.Err == nil)
	m.emitRemote(ctx, m.hooks.OnRemoteReturn, &domain.RemoteEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRemoteReturn},
		Op:        call.Op(),
		Intent:    call.Intent(),
		Duration:  elapsed,
		Err:       res.Err,
	})
	return res
}

func (m *Machine) emitRemote(ctx context.Context, hook func(context.Context, *domain.RemoteEvent), e *domain.RemoteEvent) {
	if hook != nil {
		hook(ctx, e)
	}
}
