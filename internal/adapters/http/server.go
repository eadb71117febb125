package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type ServeConfig struct {
	Addr            string
	Root            string
	ShutdownTimeout time.Duration
}

// Serve runs a static file server for cfg.Root until ctx is cancelled.
func Serve(ctx context.Context, logger *slog.Logger, cfg ServeConfig) error {
	if cfg.Addr == "" {
		return errors.New("addr is required")
	}
	if cfg.Root == "" {
		return errors.New("root is required")
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewStaticHandler(cfg.Root),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("static server listening", "addr", cfg.Addr, "root", cfg.Root)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
