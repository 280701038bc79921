package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/buckalew/retirement-sim/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculators and simulations over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		server := settings.Server
		if serveAddr != "" {
			server.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := api.NewServer(ctx, logger, server, settings.Simulation.RunConfig())
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.String("op", "serve"), zap.Error(err))
			return err
		}
		logger.Info("server shut down", zap.String("op", "serve"))
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}
