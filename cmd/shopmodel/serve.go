package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/shopmodel/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the model over HTTP",
		Long: "Serve the JSON API (/api/presets, /api/fields, /api/schema, /api/model, /api/export, " +
			"/api/breakeven, /api/version), Prometheus metrics on /metrics and /healthz. " +
			"Stops cleanly on SIGINT or SIGTERM.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.settings.Server
			if cmd.Flags().Changed("addr") {
				cfg.Address = addr
			}

			engine := a.engine()
			handler := server.NewHandler(a.logger, engine, a.settings.Parser(), server.Options{
				Version: version,
				Solver:  a.solver(engine),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(cfg, handler, a.logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address (default from settings)")
	return cmd
}
