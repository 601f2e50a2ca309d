package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/csg33k/cotizador/internal/app"
	"github.com/csg33k/cotizador/internal/config"
	"github.com/csg33k/cotizador/internal/handlers"
)

const shutdownGrace = 15 * time.Second

func main() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	wired, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("failed to wire service", "err", err)
		os.Exit(1)
	}

	h := handlers.New(wired.Orchestrator, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Error("failed to listen", "addr", srv.Addr, "err", err)
		wired.Close()
		os.Exit(1)
	}
	logger.Info("cotizador running", "addr", "http://localhost:"+cfg.Port, "sheets_backend", cfg.Sheets.Backend)

	err = serve(ctx, srv, ln, shutdownGrace, logger)
	// Handlers are drained by now, so the sheet store can go.
	if cerr := wired.Close(); cerr != nil {
		logger.Warn("failed to close resources", "err", cerr)
	}
	if err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// serve runs srv on ln until ctx is cancelled, then waits up to grace for
// in-flight requests to finish before returning.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration, logger *slog.Logger) error {
	drained := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Info("shutting down", "grace", grace)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		drained <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// Serve returns as soon as Shutdown begins.
	if err := <-drained; err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
