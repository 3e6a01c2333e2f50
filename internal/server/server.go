// Package server implements the lockgraph HTTP API.
//
// The server exposes a small JSON API for parsing lockfiles into
// dependency graphs without installing the CLI:
//
//   - POST /api/parse    parse a lockfile payload into a graph
//   - GET  /api/formats  list supported lockfile formats
//   - GET  /healthz      liveness probe
//
// Routing is handled by chi; each request is tagged with a UUID and
// logged via charmbracelet/log.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/lockgraph/lockgraph/pkg/config"
)

// Server wraps the HTTP server and its configuration.
type Server struct {
	cfg    config.Config
	logger *log.Logger
	http   *http.Server
}

// New creates a server from the given configuration.
// The logger is used for request logging and lifecycle messages.
func New(cfg config.Config, logger *log.Logger) *Server {
	s := &Server{cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.requestLogger)
	r.Use(s.limitBody)

	r.Post("/api/parse", s.handleParse)
	r.Get("/api/formats", s.handleFormats)
	r.Get("/healthz", s.handleHealth)

	s.http = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the server's root handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run starts the server and blocks until ctx is cancelled or the
// listener fails. On cancellation the server drains in-flight
// requests for up to 10 seconds before closing.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Listening on %s", s.cfg.Server.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}
