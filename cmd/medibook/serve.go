package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/anurags10/medibook"
	"github.com/anurags10/medibook/internal/cli"
	httpadapter "github.com/anurags10/medibook/pkg/adapters/http"
	"github.com/anurags10/medibook/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP",
	Long: `Starts the conversation as a JSON API:

  POST /v1/turns   {"text": "..."}
  POST /v1/reset
  GET  /v1/state
  GET  /v1/greeting

The server holds a single conversation. A turn sent while another is waiting
on the scheduling service is rejected with 409.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if !cmd.Flags().Changed("addr") {
			addr = cfg.Server.Addr
		}
		debug, _ := cmd.Flags().GetBool("debug")

		serverOpts := []httpadapter.ServerOption{httpadapter.WithServerLogger(logger)}
		var engineOpts []medibook.Option
		if cfg.Server.Metrics {
			metrics := observability.NewMetrics()
			serverOpts = append(serverOpts,
				httpadapter.WithMetricsHandler(metrics.Handler()),
				httpadapter.WithServerMiddleware(metrics.Middleware),
			)
			engineOpts = append(engineOpts, medibook.WithLifecycleHooks(metrics.Hooks()))
		}

		engine := cli.NewEngine(cfg, logger, debug, engineOpts...)
		return serve(cmd, addr, httpadapter.NewHandler(engine, serverOpts...))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
}

// serve runs h until SIGINT or SIGTERM.
func serve(cmd *cobra.Command, addr string, h http.Handler) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.ListenAndServe(ctx, addr, h, logger)
}
