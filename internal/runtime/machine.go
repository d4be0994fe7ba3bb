package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/anurags10/medibook/internal/extract"
	"github.com/anurags10/medibook/pkg/domain"
)

// MaxListedSlots caps how many available slots are offered to the user.
const MaxListedSlots = 5

// Outcome is the result of feeding one turn (or one remote result) to the machine.
type Outcome struct {
	State   domain.State
	Message string
	// Call is set when the host must perform a remote call and then Resume.
	// State is the matching domain.AwaitingRemote in that case.
	Call domain.RemoteCall
}

// Machine routes turns to the flow handlers.
type Machine struct {
	catalog *domain.Catalog
	now     func() time.Time
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
}

// Option configures a Machine.
type Option func(*Machine)

// WithCatalog replaces the built-in appointment type catalog.
func WithCatalog(c *domain.Catalog) Option {
	return func(m *Machine) {
		if c != nil {
			m.catalog = c
		}
	}
}

// WithClock sets the time source used to resolve "today" and "tomorrow".
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// NewMachine creates a machine with the default catalog and the system clock.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		catalog: domain.DefaultCatalog(),
		now:     time.Now,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Catalog returns the appointment types the machine offers.
func (m *Machine) Catalog() *domain.Catalog {
	return m.catalog
}

// Greeting is the first agent message of a conversation.
func (m *Machine) Greeting() string {
	return greetingMessage
}

// Navigate applies one user turn to s.
// It returns domain.ErrBusy, with no other effect, while s is AwaitingRemote.
func (m *Machine) Navigate(ctx context.Context, s domain.State, text string) (Outcome, error) {
	if s == nil {
		s = domain.Idle{}
	}

	var out Outcome
	switch cur := s.(type) {
	case domain.AwaitingRemote:
		return Outcome{State: s}, domain.ErrBusy
	case domain.Idle, domain.BookComplete, domain.RescheduleComplete, domain.CancelComplete:
		out = m.begin(text)

	case domain.BookAwaitType:
		out = m.bookType(cur, text)
	case domain.BookAwaitDate:
		out = m.bookDate(cur, text)
	case domain.BookAwaitSlot:
		out = m.bookSlot(cur, text)
	case domain.BookAwaitName:
		out = m.bookName(cur, text)
	case domain.BookAwaitEmail:
		out = m.bookEmail(cur, text)
	case domain.BookAwaitPhone:
		out = m.bookPhone(cur, text)
	case domain.BookAwaitReason:
		out = m.bookReason(cur, text)

	case domain.RescheduleAwaitBookingID:
		out = m.rescheduleBookingID(cur, text)
	case domain.RescheduleAwaitDate:
		out = m.rescheduleDate(cur, text)
	case domain.RescheduleAwaitTime:
		out = m.rescheduleTime(cur, text)

	case domain.CancelAwaitBookingID:
		out = m.cancelBookingID(cur, text)
	case domain.CancelAwaitReason:
		out = m.cancelReason(cur, text)
	}

	m.emitStepEnter(ctx, s, out.State)
	return out, nil
}

// Resume continues the flow that issued call, given its result.
func (m *Machine) Resume(ctx context.Context, call domain.RemoteCall, res domain.RemoteResult) Outcome {
	if call == nil {
		return Outcome{State: domain.Idle{}, Message: greetingMessage}
	}

	var out Outcome
	switch c := call.(type) {
	case domain.AvailabilityCall:
		out = m.availabilityReturned(c, res)
	case domain.BookCall:
		out = m.bookReturned(c, res)
	case domain.RescheduleCall:
		out = m.rescheduleReturned(c, res)
	case domain.CancelCall:
		out = m.cancelReturned(c, res)
	}

	if res.Err != nil {
		m.logger.Warn("remote call failed", "op", call.Op(), "err", res.Err, "next_step", out.State.Step())
	}

	m.emitStepEnter(ctx, domain.AwaitingRemote{Call: call}, out.State)
	return out
}

// begin starts a flow from an idle or finished conversation.
func (m *Machine) begin(text string) Outcome {
	intent := extract.ClassifyIntent(text)
	m.logger.Debug("intent classified", "intent", intent)

	switch intent {
	case domain.IntentReschedule:
		return Outcome{State: domain.RescheduleAwaitBookingID{}, Message: askRescheduleBookingID}
	case domain.IntentCancel:
		return Outcome{State: domain.CancelAwaitBookingID{}, Message: askCancelBookingID}
	}
	return m.bookStart(text)
}

func (m *Machine) emitStepEnter(ctx context.Context, from, to domain.State) {
	if to == nil || from.Step() == to.Step() {
		return
	}
	m.logger.Debug("step changed", "intent", to.Intent(), "from", from.Step(), "to", to.Step())
	if m.hooks.OnStepEnter != nil {
		m.hooks.OnStepEnter(ctx, &domain.StepEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepEnter},
			Intent:    to.Intent(),
			FromStep:  from.Step(),
			ToStep:    to.Step(),
		})
	}
}

func (m *Machine) remote(call domain.RemoteCall, message string) Outcome {
	return Outcome{State: domain.AwaitingRemote{Call: call}, Message: message, Call: call}
}
