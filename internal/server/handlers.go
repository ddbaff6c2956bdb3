package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/docfin/docchat/internal/service"
	"github.com/docfin/docchat/internal/vector"
)

const maxUploadBytes = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Server is running",
	})
}

// handleUpload accepts a multipart PDF, stores it, and starts background
// ingestion. The response returns before extraction begins.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if !isPDF(header.Filename, header.Header.Get("Content-Type")) {
		s.writeError(w, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	storedName := fmt.Sprintf("%s-%s", uuid.New().String(), filepath.Base(header.Filename))
	storedPath := filepath.Join(s.uploadDir, storedName)
	if err := os.WriteFile(storedPath, buf.Bytes(), 0644); err != nil {
		s.logger.Error("failed to store upload", "path", storedPath, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	job, err := s.ingester.Submit(storedName, buf.Bytes())
	if err != nil {
		if errors.Is(err, service.ErrEmptyDocument) {
			s.writeError(w, http.StatusBadRequest, "Uploaded file is empty")
			return
		}
		s.logger.Error("submission failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	s.logger.Info("upload accepted",
		slog.String("job_id", job.ID),
		slog.String("filename", header.Filename),
		slog.Int("size", buf.Len()))

	s.writeJSON(w, http.StatusOK, map[string]string{
		"jobId":          job.ID,
		"collectionName": job.CollectionName,
		"message":        "Upload successful, indexing started",
	})
}

// handleStatus is the read-only job status projection.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	job, err := s.jobs.Get(jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			s.writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "Status lookup failed")
		return
	}

	s.writeJSON(w, http.StatusOK, job)
}

type chatRequest struct {
	Query          string `json:"query"`
	CollectionName string `json:"collectionName"`
}

// handleChat answers one query against a completed collection.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" || req.CollectionName == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query or collectionName")
		return
	}

	answer, err := s.answerer.Answer(r.Context(), req.Query, req.CollectionName)
	if err != nil {
		switch {
		case errors.Is(err, vector.ErrCollectionNotFound):
			s.writeError(w, http.StatusNotFound, "Collection not found")
		case errors.Is(err, service.ErrEmptyQuery), errors.Is(err, service.ErrEmptyCollection):
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("chat request failed", "collection", req.CollectionName, "error", err)
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "Failed to process chat request",
				"details": err.Error(),
			})
		}
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"response": answer})
}

func isPDF(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return true
	}
	return contentType == "application/pdf"
}
