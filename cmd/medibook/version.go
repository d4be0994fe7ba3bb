package main

import (
	"fmt"
	"strings"

	"github.com/anurags10/medibook"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of medibook",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "medibook version %s\n", strings.TrimSpace(medibook.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
