package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/oolestudio/tamashi/internal/cli"
	httpAdapter "github.com/oolestudio/tamashi/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves tutorial sessions as a JSON API with a server-sent events stream per session.
Prometheus metrics are exposed on /metrics unless server.metrics is false.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		addr := app.Config.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		strict, _ := cmd.Flags().GetBool("strict")

		api := httpAdapter.NewHandler(app.Sessions, app.Catalog,
			httpAdapter.WithLogger(app.Logger),
			httpAdapter.WithStrictValidation(strict),
		)

		mux := http.NewServeMux()
		if app.Config.Server.Metrics {
			mux.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))
		}
		mux.Handle("/", api)

		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			app.Logger.Info("starting tamashi server", "addr", srv.Addr, "catalog", app.Config.Catalog.Path, "store", app.Config.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if idle := app.Config.Server.SessionIdle; idle > 0 {
			go app.Sessions.RunEviction(ctx, time.Minute, idle)
		}

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			app.Logger.Info("shutting down", "signal", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				app.Logger.Error("graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			app.Logger.Info("tamashi server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides server.addr)")
	serveCmd.Flags().Bool("strict", false, "Reject inline step graphs that fail validation")
}
