package runner

import (
	"context"

	"github.com/anurags10/medibook/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents one agent reply.
	Output(ctx context.Context, reply domain.Reply) error

	// Input reads the next user line. It returns io.EOF when the input ends.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (errors, status), distinct from agent replies.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
