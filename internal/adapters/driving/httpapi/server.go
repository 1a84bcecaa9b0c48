package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lectern-dev/lectern/internal/core/ports/driving"
	"github.com/lectern-dev/lectern/internal/logger"
)

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("httpapi: document service is required")

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("httpapi: retrieval service is required")

// Ports aggregates the driving port interfaces required by the HTTP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Document manages the document index.
	Document driving.DocumentService

	// Retrieval ranks documents and assembles prompt context.
	Retrieval driving.RetrievalService

	// Settings manages persisted application settings. Optional; the
	// settings endpoints return 404 when unset.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}

// Server is the HTTP API server for Lectern.
type Server struct {
	ports *Ports
	mux   *http.ServeMux
}

// NewServer creates a new HTTP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		ports: ports,
		mux:   http.NewServeMux(),
	}
	s.registerRoutes()

	return s, nil
}

// Handler returns the server's HTTP handler, exposed for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/documents", s.handleListDocuments)
	s.mux.HandleFunc("POST /api/documents", s.handleUploadDocument)
	s.mux.HandleFunc("GET /api/documents/{id}", s.handleGetDocument)
	s.mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)
	s.mux.HandleFunc("GET /api/documents/{id}/content", s.handleGetContent)
	s.mux.HandleFunc("POST /api/documents/{id}/models", s.handleAssignModels)
	s.mux.HandleFunc("POST /api/retrieve", s.handleRetrieve)
	s.mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	s.mux.HandleFunc("PUT /api/settings", s.handleSaveSettings)
}

// Run starts the HTTP server on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	logger.Info("HTTP API listening on %s", addr)

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
