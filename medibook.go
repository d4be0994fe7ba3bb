package medibook

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/anurags10/medibook/internal/runtime"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ports"
)

// Engine owns a single conversation and the client it talks to.
type Engine struct {
	client  ports.SchedulingClient
	machine *runtime.Machine
	logger  *slog.Logger

	hooks   domain.LifecycleHooks
	catalog *domain.Catalog
	now     func() time.Time

	mu    sync.Mutex
	state domain.State
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithClock overrides the clock used to resolve relative dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithCatalog replaces the built-in appointment type catalog.
func WithCatalog(c *domain.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// New creates an idle conversation backed by client.
func New(client ports.SchedulingClient, opts ...Option) *Engine {
	e := &Engine{
		client: client,
		state:  domain.Idle{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	e.machine = runtime.NewMachine(
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithCatalog(e.catalog),
		runtime.WithClock(e.now),
	)
	return e
}

// Greeting returns the opening agent message.
func (e *Engine) Greeting() string {
	return e.machine.Greeting()
}

// Turn processes one user turn and returns the agent's reply.
//
// If the turn needs the scheduling service, Turn blocks until the call returns.
// Cancelling ctx does not abort a call already sent.
// Meanwhile any concurrent Turn or Reset fails with domain.ErrBusy and leaves
// the conversation untouched.
func (e *Engine) Turn(ctx context.Context, text string) (domain.Reply, error) {
	e.mu.Lock()
	out, err := e.machine.Navigate(ctx, e.state, text)
	if err != nil {
		e.mu.Unlock()
		return domain.Reply{}, err
	}
	e.state = out.State
	e.mu.Unlock()

	if out.Call != nil {
		// The service may commit even if the caller leaves; only the client's
		// own timeout bounds the call.
		res := e.machine.Execute(context.WithoutCancel(ctx), e.client, out.Call)

		e.mu.Lock()
		out = e.machine.Resume(ctx, out.Call, res)
		e.state = out.State
		e.mu.Unlock()
	}

	e.logger.Debug("turn processed", "intent", out.State.Intent(), "step", out.State.Step())
	return domain.Reply{Message: out.Message, Snapshot: domain.NewSnapshot(out.State)}, nil
}

// Reset abandons the current flow. It fails with domain.ErrBusy while a
// remote call is outstanding.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.state.(domain.AwaitingRemote); busy {
		return domain.ErrBusy
	}
	e.state = domain.Idle{}
	e.logger.Debug("conversation reset")
	return nil
}

// Snapshot returns the current position of the conversation.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.NewSnapshot(e.state)
}

// Inspect returns the static flow graph.
func (e *Engine) Inspect() []runtime.Transition {
	return e.machine.Inspect()
}

// Catalog returns the appointment types offered by the engine.
func (e *Engine) Catalog() *domain.Catalog {
	return e.machine.Catalog()
}

var _ ports.Conversation = (*Engine)(nil)
