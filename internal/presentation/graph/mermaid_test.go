package graph_test

import (
	"strings"
	"testing"

	"github.com/anurags10/medibook/internal/presentation/graph"
	"github.com/anurags10/medibook/internal/runtime"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		transitions []runtime.Transition
		contains    []string
	}{
		{
			name: "Shapes",
			transitions: []runtime.Transition{
				{From: domain.StepAwaitingIntent, To: domain.StepCancelBookingID},
				{From: domain.StepCancelReason, To: domain.StepAwaitingRemote},
				{From: domain.StepAwaitingRemote, To: domain.StepComplete},
			},
			contains: []string{
				`awaiting_intent(("awaiting_intent"))`,
				`cancel_booking_id[/"cancel_booking_id"/]`,
				`awaiting_remote[["awaiting_remote"]]`,
				`complete(("complete"))`,
			},
		},
		{
			name: "Labels And Remote Edges",
			transitions: []runtime.Transition{
				{From: domain.StepBookType, To: domain.StepBookDate, Label: "type"},
				{From: domain.StepBookDate, To: domain.StepAwaitingRemote, Label: "availability"},
				{From: domain.StepAwaitingRemote, To: domain.StepBookSlot},
			},
			contains: []string{
				`book_type -- "type" --> book_date`,
				`book_date -. "availability" .-> awaiting_remote`,
				`awaiting_remote -.-> book_slot`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.transitions, nil)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			assert.NotContains(t, got, "classDef")
		})
	}
}

func TestGenerateMermaid_DeclaresEachStepOnce(t *testing.T) {
	got := graph.GenerateMermaid(runtime.NewMachine().Inspect(), nil)
	assert.Equal(t, 1, strings.Count(got, `book_date[/"book_date"/]`))
	assert.Equal(t, 1, strings.Count(got, `awaiting_remote[["awaiting_remote"]]`))
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	overlay := &graph.GraphOverlay{
		VisitedSteps: []domain.Step{domain.StepAwaitingIntent, domain.StepBookType, domain.StepBookType},
		CurrentStep:  domain.StepBookDate,
	}
	got := graph.GenerateMermaid(runtime.NewMachine().Inspect(), overlay)

	assert.Contains(t, got, "classDef current")
	assert.Equal(t, 1, strings.Count(got, "class book_type visited;"))
	assert.Contains(t, got, "class awaiting_intent visited;")
	assert.Contains(t, got, "class book_date current;")
}
