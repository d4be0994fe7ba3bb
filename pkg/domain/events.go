package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter    EventType = "step_enter"
	EventRemoteCall   EventType = "remote_call"
	EventRemoteReturn EventType = "remote_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StepEvent is emitted whenever a turn moves the conversation to another step.
type StepEvent struct {
	EventBase
	Intent   Intent `json:"intent"`
	FromStep Step   `json:"from_step"`
	ToStep   Step   `json:"to_step"`
}

// RemoteEvent describes a scheduling service call.
// Duration and Err are only set on EventRemoteReturn.
type RemoteEvent struct {
	EventBase
	Op       string        `json:"op"`
	Intent   Intent        `json:"intent"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStepEnter    func(context.Context, *StepEvent)
	OnRemoteCall   func(context.Context, *RemoteEvent)
	OnRemoteReturn func(context.Context, *RemoteEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStepEnter:    chain(h.OnStepEnter, other.OnStepEnter),
		OnRemoteCall:   chain(h.OnRemoteCall, other.OnRemoteCall),
		OnRemoteReturn: chain(h.OnRemoteReturn, other.OnRemoteReturn),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
