// Package server provides the HTTP server for the storefront API.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hormonegroup/storefront/internal/server/handlers"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	reconciler handlers.Reconciler
	catalog    handlers.Catalog
	checkout   handlers.CheckoutCreator
	logger     *zerolog.Logger
	config     Config
	httpServer *http.Server
}

// New creates a new server instance with the given dependencies.
func New(reconciler handlers.Reconciler, catalog handlers.Catalog, checkout handlers.CheckoutCreator, cfg Config, logger *zerolog.Logger) *Server {
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultConfig().PathPrefix
	}

	s := &Server{
		reconciler: reconciler,
		catalog:    catalog,
		checkout:   checkout,
		logger:     logger,
		config:     cfg,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.setupRouter(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts serving and blocks until the listener fails or the
// server is shut down.
func (s *Server) ListenAndServe() error {
	s.logger.Info().
		Str("addr", s.httpServer.Addr).
		Str("path_prefix", s.config.PathPrefix).
		Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
