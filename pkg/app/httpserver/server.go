// Package httpserver runs the tracker's HTTP listener and ties its
// lifetime to the process context.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout bounds the drain phase when the caller does
// not pick a timeout.
const DefaultShutdownTimeout = 30 * time.Second

// ServeAndWait runs srv until ctx is canceled or the listener fails,
// then drains in-flight requests within shutdownTimeout. A listener
// failure is still followed by a shutdown attempt so accepted
// connections finish; the listener error takes precedence in the
// return value.
func ServeAndWait(ctx context.Context, logger *zap.Logger, srv *http.Server, shutdownTimeout time.Duration) error {
	if srv == nil {
		return fmt.Errorf("nil http server")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("API server listening", zap.String("address", srv.Addr))
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	var listenErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received, draining requests")
	case listenErr = <-serveErr:
		if listenErr != nil {
			logger.Error("API server failed", zap.Error(listenErr))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)

	switch {
	case listenErr != nil:
		return fmt.Errorf("http server failed: %w", listenErr)
	case shutdownErr != nil:
		return fmt.Errorf("http shutdown: %w", shutdownErr)
	}

	logger.Info("API server stopped", zap.String("address", srv.Addr))
	return nil
}
