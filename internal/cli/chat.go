package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/anurags10/medibook/internal/presentation/tui"
	"github.com/anurags10/medibook/pkg/ports"
	"github.com/anurags10/medibook/pkg/runner"
)

// ChatOptions configures an interactive or scripted chat session.
type ChatOptions struct {
	In  io.Reader
	Out io.Writer

	// JSON switches to JSON-lines input and output.
	JSON bool
	// Interactive enables the banner and markdown rendering.
	Interactive bool
}

// RunChat drives conv from opts.In until the input ends or the user quits.
func RunChat(ctx context.Context, conv ports.Conversation, opts ChatOptions, logger *slog.Logger) error {
	var handler runner.IOHandler
	switch {
	case opts.JSON:
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	case opts.Interactive:
		tui.PrintBanner(opts.Out)
		var textOpts []runner.TextHandlerOption
		if render, err := tui.NewRenderer(); err == nil {
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(render))
		} else {
			logger.Warn("markdown renderer unavailable", "err", err)
		}
		handler = runner.NewTextHandler(opts.In, opts.Out, textOpts...)
	default:
		handler = runner.NewTextHandler(opts.In, opts.Out)
	}

	r := runner.NewRunner(
		runner.WithInputHandler(handler),
		runner.WithLogger(logger),
	)
	return r.Run(ctx, conv)
}
