package main

import (
	"github.com/anurags10/medibook/internal/cli"
	"github.com/anurags10/medibook/internal/config"
	"github.com/spf13/cobra"
)

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Run the reference scheduling service",
	Long: `Starts the scheduling service the conversation talks to.

Endpoints (under /api, JWT protected when service.secret is set):
  GET  /availability?date=YYYY-MM-DD&appointmentType=...
  POST /book, /reschedule, /cancel
  GET  /bookings/{id}

Bookings are kept in memory, redis, postgres or JSON files (service.store).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Service.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("store") {
			cfg.Service.Store, _ = cmd.Flags().GetString("store")
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		store, locker, cleanup, err := cli.NewBookingStore(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		h, err := cli.NewBackendHandler(cfg, store, locker, logger)
		if err != nil {
			return err
		}
		return serve(cmd, cfg.Service.Addr, h)
	},
}

func init() {
	rootCmd.AddCommand(backendCmd)
	backendCmd.Flags().StringP("addr", "a", ":8081", "Address to listen on")
	backendCmd.Flags().String("store", config.StoreMemory, "Booking store: memory, redis, postgres or file")
}
