package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jvdveen/dealwatch/internal/api"
	"jvdveen/dealwatch/logger"
	"jvdveen/dealwatch/services/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the periodic refresh worker",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Default

	st, err := openStore()
	if err != nil {
		return err
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresher, cleanup := newRefresher(ctx, st)
	defer cleanup()

	log.Info().
		Str("environment", cfg.Environment).
		Str("deals_file", cfg.DealsFile).
		Str("port", cfg.Port).
		Dur("refresh_interval", cfg.RefreshInterval).
		Msg("Starting dealwatch")

	// Start the periodic refresh worker when an interval is configured
	if cfg.RefreshInterval > 0 {
		w := worker.NewWorker(ctx, refresher, cfg.RefreshInterval)
		go w.Start()
	}

	router := api.NewRouter(api.NewHandler(st, refresher, cfg.StaleAfter))
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP API listening")
		serverDone <- server.ListenAndServe()
	}()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-serverDone:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
