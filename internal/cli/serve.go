package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP host.
const ShutdownTimeout = 5 * time.Second

// Serve runs the HTTP host on ln until ctx is cancelled, then shuts it down
// gracefully. Open event streams are ended when shutdown starts.
func Serve(ctx context.Context, app *App, ln net.Listener) error {
	host := app.Server()
	srv := &http.Server{
		Handler:           host.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(host.Streams.Close)

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting bloom server", "addr", ln.Addr().String())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		app.Logger.Info("Shutting down bloom server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			return srv.Close()
		}
		app.Logger.Info("bloom server stopped gracefully")
		return nil
	}
}
