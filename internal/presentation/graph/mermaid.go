package graph

import (
	"fmt"
	"strings"

	"github.com/anurags10/medibook/internal/runtime"
	"github.com/anurags10/medibook/pkg/domain"
)

// GraphOverlay contains conversation state to visualize on the graph.
type GraphOverlay struct {
	VisitedSteps []domain.Step
	CurrentStep  domain.Step
}

// GenerateMermaid produces a Mermaid flowchart from the flow transitions.
// It applies semantic styling:
// - Idle and complete: ((Circle))
// - Awaiting remote: [[Subroutine]]
// - Steps waiting on user input: [/Parallelogram/]
// Edges into or out of the remote step are dotted.
func GenerateMermaid(transitions []runtime.Transition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[domain.Step]bool)
	declare := func(step domain.Step) {
		if declared[step] {
			return
		}
		declared[step] = true
		opener, closer := shape(step)
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(string(step)), opener, step, closer)
	}

	for _, t := range transitions {
		declare(t.From)
		declare(t.To)
	}

	for _, t := range transitions {
		dotted := t.From == domain.StepAwaitingRemote || t.To == domain.StepAwaitingRemote
		arrow := "-->"
		if t.Label != "" {
			label := strings.ReplaceAll(t.Label, "\"", "'")
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
			if dotted {
				arrow = fmt.Sprintf("-. \"%s\" .->", label)
			}
		} else if dotted {
			arrow = "-.->"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(string(t.From)), arrow, sanitizeMermaidID(string(t.To)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on light fills in both themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, step := range overlay.VisitedSteps {
			id := sanitizeMermaidID(string(step))
			if id != "" && !visited[id] {
				visited[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", id)
			}
		}
		if overlay.CurrentStep != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(string(overlay.CurrentStep)))
		}
	}

	return sb.String()
}

func shape(step domain.Step) (string, string) {
	switch step {
	case domain.StepAwaitingIntent, domain.StepComplete:
		return "((", "))"
	case domain.StepAwaitingRemote:
		return "[[", "]]"
	default:
		return "[/", "/]"
	}
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
