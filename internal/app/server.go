package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

type namedServer struct {
	name string
	srv  *http.Server
}

func (a *App) servers() []namedServer {
	return []namedServer{
		{name: "HTTP Server", srv: a.httpServer},
		{name: "SSE Server", srv: a.sseServer},
	}
}

// Start launches the API and stream servers and returns a channel closed on
// SIGINT, SIGTERM or SIGHUP.
func (a *App) Start() <-chan struct{} {
	terminated := make(chan struct{})

	for _, s := range a.servers() {
		go func() {
			slog.Info("server listening", "name", s.name, "address", s.srv.Addr)

			if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				slog.Error("failed to listen and serve", "name", s.name, "error", err)
				os.Exit(1)
			}
		}()
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sig)

		received := <-sig
		slog.Info("shutdown signal received", "signal", received.String())

		// consumers and the feed listener stop pulling work right away
		a.cancel()
		close(terminated)
	}()

	return terminated
}

// Stop drains the servers, waits for background consumers, then releases
// resources newest first.
func (a *App) Stop(ctx context.Context) {
	a.cancel()

	for _, s := range a.servers() {
		if err := s.srv.Shutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", s.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", c.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}
