package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnsupportedFile is returned for uploads whose extension is not allowed.
var ErrUnsupportedFile = errors.New("server: file type not allowed")

// uploadField is the multipart field carrying the screenshot.
const uploadField = "screenshot"

// Handler returns the HTTP API:
//
//	GET  /        service status and version
//	GET  /health  dictionary, OCR and upload directory status
//	POST /solve   multipart upload in field "screenshot", returns {"swipes": [...]}
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /solve", s.handleSolve)
	return s.logRequests(mux)
}

// ListenAndServe serves the HTTP API on addr until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := os.MkdirAll(s.opts.UploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr, "upload_dir", s.opts.UploadDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "Swipe solver API is running",
		"version": s.opts.Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "healthy",
		"dictionary_size":   s.dict.Len(),
		"dictionary_source": s.dict.Source(),
		"ocr":               s.ocrInfo(),
		"upload_folder":     s.opts.UploadDir,
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, "No screenshot file provided")
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid upload: %v", err))
		}
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}
	ext, err := s.checkExtension(header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, "File type not allowed")
		return
	}

	path, err := s.saveUpload(file, ext)
	if err != nil {
		s.log.Error("failed to save upload", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			s.log.Warn("failed to remove upload", "path", path, "error", err)
		}
	}()

	s.log.Info("processing screenshot", "filename", header.Filename, "path", path)
	writeJSON(w, http.StatusOK, s.solver.SolveFile(path))
}

// checkExtension returns the lowercase extension of name when it is allowed.
func (s *Server) checkExtension(name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, allowed := range s.opts.AllowedExtensions {
		if ext != "" && ext == strings.ToLower(allowed) {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFile, name)
}

// saveUpload writes r under a random name in the upload dir. The client's
// file name is never used as a path.
func (s *Server) saveUpload(r io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.opts.UploadDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.opts.UploadDir, uuid.NewString()+"."+ext)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}
