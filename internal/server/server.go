// Package server provides the HTTP API for pushing files to cloud storage.
//
// Endpoints:
//
//	POST /v1/upload   — multipart file upload; returns the object's public URL
//	GET  /v1/healthz  — liveness, plus whether the storage gateway is enabled
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bsormagec/no-code-architects-toolkit/internal/storage"
)

// Server holds the dependencies shared across HTTP handlers.
type Server struct {
	uploader storage.Uploader
	spool    *storage.Spool
	logger   *zap.Logger
	mux      *http.ServeMux
}

// New creates a Server wired to the given uploader and spool.
func New(uploader storage.Uploader, spool *storage.Spool, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		uploader: uploader,
		spool:    spool,
		logger:   logger,
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("POST /v1/upload", s.handleUpload)
	s.mux.HandleFunc("GET /v1/healthz", s.handleHealth)

	return s
}

// ServeHTTP dispatches to the server's mux, making Server usable as a plain
// http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given address. The generous
// read/write timeouts accommodate slow file transfers; uploads run inline in
// the request handler with no background work.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return srv.ListenAndServe()
}

// uploadResponse is returned from POST /v1/upload on success.
type uploadResponse struct {
	URL         string `json:"url"`
	Bucket      string `json:"bucket"`
	ObjectName  string `json:"object_name"`
	ContentType string `json:"content_type,omitempty"`
}

// healthResponse is returned from GET /v1/healthz.
type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required: "+err.Error())
		return
	}
	defer file.Close()

	localPath, err := s.spool.Write(header.Filename, file)
	if err != nil {
		s.logger.Error("failed to stage upload", zap.String("filename", header.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to stage upload: "+err.Error())
		return
	}
	defer func() {
		if err := s.spool.Discard(localPath); err != nil {
			s.logger.Warn("failed to remove spooled file", zap.String("path", localPath), zap.Error(err))
		}
	}()

	res, err := s.uploader.UploadFile(r.Context(), localPath, r.FormValue("bucket"))
	switch {
	case errors.Is(err, storage.ErrNotInitialized):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, storage.ErrBucketRequired):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, "upload failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		URL:         res.PublicURL,
		Bucket:      res.Bucket,
		ObjectName:  res.ObjectName,
		ContentType: res.ContentType,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := "disabled"
	if s.uploader.Enabled() {
		state = "enabled"
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Storage: state})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
