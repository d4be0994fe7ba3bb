package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/anurags10/medibook"
	"github.com/anurags10/medibook/internal/testutils"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestServer_Conversation(t *testing.T) {
	sched := new(testutils.MockScheduler)
	sched.On("Cancel", mock.Anything, domain.CancelRequest{BookingID: "APPT-20240115-0900", Reason: "moving away"}).
		Return(domain.CancelConfirmation{BookingID: "APPT-20240115-0900", Status: domain.StatusCancelled}, nil)
	s := NewServer(medibook.New(sched))
	ctx := context.Background()

	send := func(text string) TurnResponse {
		t.Helper()
		out, err := s.handleSendMessage(ctx, mcp.CallToolRequest{}, map[string]interface{}{"text": text})
		require.NoError(t, err)
		return out
	}

	out := send("please cancel")
	assert.Equal(t, domain.IntentCancel, out.Intent)
	assert.Equal(t, domain.StepCancelBookingID, out.Step)

	send("APPT-20240115-0900")
	out = send("moving away")
	assert.Equal(t, domain.StepComplete, out.Step)
	assert.True(t, out.Terminal)
	assert.Contains(t, out.Message, "cancelled")

	state, err := s.handleGetState(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StepComplete, state.Step)

	reset, err := s.handleReset(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StepAwaitingIntent, reset.Step)
	assert.Contains(t, reset.Message, "Hello!")
	sched.AssertExpectations(t)
}

func TestServer_SendMessageRejectsBadArgs(t *testing.T) {
	s := NewServer(medibook.New(new(testutils.MockScheduler)))

	_, err := s.handleSendMessage(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"text": 42})
	assert.Error(t, err)

	t.Setenv("MEDIBOOK_MAX_INPUT_SIZE", "4")
	_, err = s.handleSendMessage(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"text": "book a physical"})
	assert.ErrorContains(t, err, "input rejected")
}

func TestServer_FlowResourceIsMermaid(t *testing.T) {
	s := NewServer(medibook.New(new(testutils.MockScheduler)))
	ctx := context.Background()

	_, err := s.handleSendMessage(ctx, mcp.CallToolRequest{}, map[string]interface{}{"text": "cancel"})
	require.NoError(t, err)

	contents, err := s.handleReadFlow(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, FlowURI, text.URI)
	assert.Equal(t, "text/plain", text.MIMEType)
	assert.True(t, strings.HasPrefix(text.Text, "graph TD\n"))
	assert.Contains(t, text.Text, "class cancel_booking_id current;")
}
