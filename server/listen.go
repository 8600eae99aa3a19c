// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// Values for http.Server timeouts.
	// ref: gosec: G112
	readHeaderTimeout time.Duration = 15 * time.Second
	readTimeout       time.Duration = 15 * time.Second
	writeTimeout      time.Duration = 10 * time.Second
	idleTimeout       time.Duration = 30 * time.Second

	shutdownDeadline time.Duration = 5 * time.Second
)

// Listen opens a Unix domain socket when unixSocket is set, and a TCP
// listener on host:port otherwise.
func Listen(ctx context.Context, host, port, unixSocket string) (net.Listener, error) {
	if unixSocket != "" {
		l, err := (&net.ListenConfig{}).Listen(ctx, "unix", unixSocket)
		if err != nil {
			return nil, fmt.Errorf("failed to start Unix socket listener on %v: %w", unixSocket, err)
		}

		log.Info().
			Str("address", unixSocket).
			Msg("Listening on Unix domain socket")

		return l, nil
	}

	addr := net.JoinHostPort(host, port)

	l, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start TCP listener on %v: %w", addr, err)
	}

	log.Info().
		Str("address", l.Addr().String()).
		Str("url", "http://"+l.Addr().String()+"/").
		Msg("Listening on address")

	return l, nil
}

// Serve serves handler on l until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, l net.Listener, handler http.Handler) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- server.Serve(l)
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	case <-ctx.Done():
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownDeadline)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}
