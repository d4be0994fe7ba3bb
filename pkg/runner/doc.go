/*
Package runner drives a medibook conversation from a line-oriented frontend.

It is the bridge between a ports.Conversation and the outside world: it prints
the greeting, reads one user line per turn through a pluggable IOHandler, and
writes every reply back until the input ends or the user quits.

# Key Components

  - Runner: the read-turn-reply loop.
  - IOHandler: decouples how replies are shown and lines are read (text or JSON lines).
  - TextHandler: interactive terminal usage, with an optional markdown renderer.
  - JSONHandler: one JSON object per reply, for scripting and tests.
  - SanitizeInput: size and control character checks shared with the HTTP and MCP adapters.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithLogger(logger),
	)

	if err := r.Run(ctx, engine); err != nil {
		log.Fatal(err)
	}
*/
package runner
