package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CodeTracer/internal/api"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var argAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the visualize/trace/format JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&argAddr, "addr", "", "Listen address (default from config, 127.0.0.1:3000)")
	serveCmd.Flags().IntVar(&argIndent, "indent", 0, "Spaces per indent level for /api/format (default from config, 4)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr

	tracer, err := newTracer()
	if err != nil {
		return err
	}
	srv := api.NewServer(tracer, cfg.Limits, logger)
	srv.IndentSize = cfg.IndentSize

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		color.Cyan("[*] Listening on http://%s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	color.Cyan("[*] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
		return err
	}
	return nil
}
