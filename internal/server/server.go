// Package server exposes the docchat core over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/docfin/docchat/internal/service"
)

// Server wires the core services to their HTTP endpoints.
type Server struct {
	ingester  *service.Ingester
	answerer  *service.Answerer
	jobs      *service.JobManager
	uploadDir string
	logger    *slog.Logger
	http      *http.Server
}

// New creates a server. The upload dir must exist.
func New(addr, uploadDir string, ingester *service.Ingester, answerer *service.Answerer, jobs *service.JobManager, logger *slog.Logger) *Server {
	s := &Server{
		ingester:  ingester,
		answerer:  answerer,
		jobs:      jobs,
		uploadDir: uploadDir,
		logger:    logger,
	}
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // completion calls are slow
	}
	return s
}

// Routes builds the router. Exposed for tests.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/api/upload", s.handleUpload).Methods("POST")
	r.HandleFunc("/api/status/{jobId}", s.handleStatus).Methods("GET")
	r.HandleFunc("/api/chat", s.handleChat).Methods("POST")
	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down server")
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
