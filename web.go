package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/bodul/collabcross/internal/layout"
)

const timeout = 10 * time.Second

// Serve runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, cfg *Config) error {
	logf(cfg, "START: collabcross v%s (grid %dx%d)", releaseVersion, cfg.gridSize, cfg.gridSize)

	store := NewStore(layout.New(cfg.gridSize))
	server := NewServer(cfg, store)
	go server.sweep(ctx)

	// No WriteTimeout: event streams stay open until ctx is done.
	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           server,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errs := make(chan error, 1)
	go func() {
		logf(cfg, "SERVE: Listening on http://%s/", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
