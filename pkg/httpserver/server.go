// Package httpserver wraps net/http with sane timeouts and graceful
// shutdown.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Server is an HTTP server with graceful shutdown.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// New creates a server for the given address and handler.
func New(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration, logger *slog.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		logger: logger,
	}
}

// Run blocks serving requests until the listener fails or Shutdown is
// called. A closed server returns nil.
func (s *Server) Run() error {
	s.logger.Info("starting http server",
		slog.String("addr", s.server.Addr),
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires, then forces the
// server closed.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("graceful shutdown failed, forcing close",
			slog.String("error", err.Error()),
		)
		return s.server.Close()
	}

	s.logger.Info("server stopped gracefully")
	return nil
}
