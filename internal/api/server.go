package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/listahan/internal/api/handlers"
	"github.com/amaumene/listahan/internal/api/middleware"
	"github.com/amaumene/listahan/internal/config"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	entries handlers.EntryStore
	conn    handlers.ConnectionState
	logger  *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, entries handlers.EntryStore, conn handlers.ConnectionState, logger *logrus.Logger) *Server {
	s := &Server{
		entries: entries,
		conn:    conn,
		logger:  logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	// No write timeout: list and mutation requests wait on the remote store,
	// which has no deadline unless HTTP_TIMEOUT is set.
	s.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           middleware.Logging(mux, logger),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler exposes the routed handler, middleware included
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.Handle("/health", healthHandler)

	statusHandler := handlers.NewStatusHandler(s.entries, s.conn, s.logger)
	mux.Handle("/status", statusHandler)

	entriesHandler := handlers.NewEntriesHandler(s.entries, s.logger)
	mux.HandleFunc("GET /api/entries", entriesHandler.List)
	mux.HandleFunc("POST /api/entries", entriesHandler.Create)
	mux.HandleFunc("PUT /api/entries/{id}", entriesHandler.Update)
	mux.HandleFunc("DELETE /api/entries/{id}", entriesHandler.Delete)
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
