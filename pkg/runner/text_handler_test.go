package runner_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlockingPipe() (*io.PipeReader, *io.PipeWriter) {
	return io.Pipe()
}

func TestTextHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	handler := runner.NewTextHandler(strings.NewReader(""), out,
		runner.WithTextHandlerRenderer(func(s string) (string, error) {
			return "Rendered: " + s, nil
		}))

	require.NoError(t, handler.Output(context.Background(), domain.Reply{Message: "Hello World\n"}))
	assert.Equal(t, "Rendered: Hello World\n", out.String())
}

func TestTextHandler_Input(t *testing.T) {
	out := &bytes.Buffer{}
	handler := runner.NewTextHandler(strings.NewReader("  my user input \n\x1b\n"), out)

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "my user input", val)
	assert.Equal(t, "> ", out.String())

	val, err = handler.Input(context.Background())
	require.NoError(t, err)
	assert.Empty(t, val)

	_, err = handler.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_InputRejectsOversized(t *testing.T) {
	t.Setenv(runner.EnvMaxInputSize, "5")
	out := &bytes.Buffer{}
	handler := runner.NewTextHandler(strings.NewReader("far too long\nok\n"), out, runner.WithPrompt("? "))

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Contains(t, out.String(), "Please try again.")
	assert.Equal(t, 2, strings.Count(out.String(), "? "))
}

func TestTextHandler_InputCancelled(t *testing.T) {
	pr, pw := newBlockingPipe()
	defer pw.Close()
	handler := runner.NewTextHandler(pr, &bytes.Buffer{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := handler.Input(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTextHandler_SystemOutput(t *testing.T) {
	out := &bytes.Buffer{}
	handler := runner.NewTextHandler(strings.NewReader(""), out)
	require.NoError(t, handler.SystemOutput(context.Background(), "busy"))
	assert.Equal(t, "[System] busy\n", out.String())
}
