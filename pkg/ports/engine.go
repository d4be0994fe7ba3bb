package ports

import (
	"context"

	"github.com/anurags10/medibook/pkg/domain"
)

// Conversation is the interface used by adapters (HTTP, MCP, CLI runner) that
// drive a single conversation turn by turn.
type Conversation interface {
	// Greeting returns the opening agent message without changing state.
	Greeting() string

	// Turn processes one user message. It returns domain.ErrBusy, without touching
	// the state, while a previous turn is still waiting on the scheduling service.
	Turn(ctx context.Context, text string) (domain.Reply, error)

	// Reset discards all progress. It returns domain.ErrBusy while a call is in flight.
	Reset(ctx context.Context) error

	// Snapshot returns the current position of the conversation.
	Snapshot() domain.Snapshot
}
