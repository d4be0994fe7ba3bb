package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/anurags10/medibook/internal/cli"
	"github.com/anurags10/medibook/internal/config"
	"github.com/anurags10/medibook/pkg/runner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "medibook",
	Short: "medibook is a conversational appointment booking assistant",
	Long: `medibook books, reschedules and cancels medical appointments through a
turn-by-turn conversation backed by a scheduling service.

Without a subcommand it starts an interactive chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("config")
		v := config.New(file)
		bindFlags(cmd, v, map[string]string{
			"log.level":      "log-level",
			"log.format":     "log-format",
			"backend.url":    "backend-url",
			"backend.secret": "backend-secret",
		})

		var err error
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}
		logger, err = cli.NewLogger(cfg)
		if err != nil {
			return err
		}
		runner.DefaultMaxInputSize = cfg.MaxInputSize
		return nil
	},
	RunE: runChat,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bindFlags lets explicitly set flags override file and env values.
func bindFlags(cmd *cobra.Command, v *viper.Viper, keys map[string]string) {
	for key, name := range keys {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./medibook.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().String("backend-url", "http://localhost:8081", "Base URL of the scheduling service")
	rootCmd.PersistentFlags().String("backend-secret", "", "Shared secret for signing scheduling service requests")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every step change and remote call")

	rootCmd.Flags().Bool("json", false, "Use JSON-lines input and output")
}
