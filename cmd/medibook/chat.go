package main

import (
	"os"

	"github.com/anurags10/medibook/internal/cli"
	"github.com/anurags10/medibook/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the booking assistant in the terminal",
	Long: `Starts a conversation on stdin/stdout. Type 'exit' to quit and '/reset' to start over.
With --json every reply is printed as one JSON object and input lines may be JSON strings.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	jsonMode, _ := cmd.Flags().GetBool("json")
	debug, _ := cmd.Flags().GetBool("debug")

	engine := cli.NewEngine(cfg, logger, debug)
	opts := cli.ChatOptions{
		In:          os.Stdin,
		Out:         os.Stdout,
		JSON:        jsonMode,
		Interactive: !jsonMode && tui.IsInteractive(),
	}
	return cli.RunChat(cmd.Context(), engine, opts, logger)
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().Bool("json", false, "Use JSON-lines input and output")
}
