package main

import (
	"fmt"

	"github.com/anurags10/medibook/internal/presentation/graph"
	"github.com/anurags10/medibook/internal/runtime"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the conversation flow as a Mermaid diagram",
	Long:  `Prints a Mermaid flowchart (graph TD) of every step and transition. --current highlights one step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("current")

		var overlay *graph.GraphOverlay
		if current != "" {
			overlay = &graph.GraphOverlay{CurrentStep: domain.Step(current)}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(runtime.NewMachine().Inspect(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("current", "", "Step to highlight, e.g. book_date")
}
