package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ports"
)

// Runner handles the turn loop of a conversation using the provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler over Input/Output is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// quitWords end the session when typed as a whole line.
var quitWords = map[string]bool{"exit": true, "quit": true}

// ResetCommand abandons the current flow without leaving the session.
const ResetCommand = "/reset"

// Run converses until the input ends, the user quits, or ctx is cancelled.
// An interrupt (SIGINT/SIGTERM) ends the session cleanly.
func (r *Runner) Run(ctx context.Context, conv ports.Conversation) error {
	handler := r.resolveHandler()

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	if !r.Headless {
		if err := handler.Output(ctx, domain.Reply{Message: conv.Greeting(), Snapshot: conv.Snapshot()}); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}

	for {
		turnCtx := signals.Context()

		text, err := handler.Input(turnCtx)
		if err != nil {
			signals.CheckRace()
			if turnCtx.Err() != nil {
				r.Logger.Debug("runner input: context cancelled", "err", turnCtx.Err())
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		line := strings.TrimSpace(text)
		if quitWords[strings.ToLower(line)] {
			return nil
		}

		if strings.EqualFold(line, ResetCommand) {
			if err := conv.Reset(turnCtx); err != nil {
				return fmt.Errorf("reset error: %w", err)
			}
			if err := handler.SystemOutput(turnCtx, "Conversation reset."); err != nil {
				return err
			}
			if err := handler.Output(turnCtx, domain.Reply{Message: conv.Greeting(), Snapshot: conv.Snapshot()}); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}

		reply, err := conv.Turn(turnCtx, line)
		if err != nil {
			if errors.Is(err, domain.ErrBusy) {
				r.Logger.Warn("turn rejected while busy")
				if err := handler.SystemOutput(turnCtx, err.Error()); err != nil {
					return err
				}
				continue
			}
			return fmt.Errorf("turn error: %w", err)
		}
		r.Logger.Debug("turn completed", "intent", reply.Intent, "step", reply.Step, "terminal", reply.Terminal)

		if err := handler.Output(turnCtx, reply); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	th := NewTextHandler(r.Input, r.Output, WithTextHandlerRenderer(r.Renderer))
	if !r.Headless && r.Output != nil {
		fmt.Fprintln(r.Output, "--- medibook (type 'exit' to quit, '/reset' to start over) ---")
	}
	// Memoize so a second Run reuses the same input pump.
	r.Handler = th
	return th
}
