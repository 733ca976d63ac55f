// Package server exposes the analyzer over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/irahardianto/memsafe/internal/engine/analyzer"
	"github.com/irahardianto/memsafe/internal/engine/formatter"
	"github.com/irahardianto/memsafe/internal/platform/logger"
)

// defaultFilename names pasted code that arrives without a filename.
const defaultFilename = "input.c"

// envelopeBytes is the allowance for the JSON wrapper and escaping on top of
// the source limit.
const envelopeBytes = 64 << 10

const shutdownTimeout = 10 * time.Second

// SourceAnalyzer analyzes a single source. *analyzer.Analyzer implements it.
type SourceAnalyzer interface {
	Analyze(ctx context.Context, src analyzer.Source) (*formatter.FileReport, error)
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Code     string `json:"code"`
	Filename string `json:"filename,omitempty"`
}

// InterpretRequest is the body of POST /api/interpret.
type InterpretRequest struct {
	Code     string `json:"code"`
	Response string `json:"response"`
	Filename string `json:"filename,omitempty"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves the analysis API.
type Server struct {
	analyzer SourceAnalyzer
	maxBytes int64
	log      *slog.Logger
}

// New creates a Server. A nil analyzer disables /api/analyze, which then
// answers 503; interpretation works without a provider. maxBytes limits the
// code size, 0 disables the limit.
func New(a SourceAnalyzer, maxBytes int64, log *slog.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{analyzer: a, maxBytes: maxBytes, log: log}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/interpret", s.handleInterpret)
	return s.withLogging(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
		s.log.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "no provider configured")
		return
	}

	var req AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}

	src := analyzer.Source{Path: filename(req.Filename), Content: req.Code}
	if !s.validate(w, src) {
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), src)
	if err != nil {
		s.writeSourceError(w, err)
		return
	}

	status := http.StatusOK
	if report.Failed() && report.RawOutput == "" {
		// The provider never answered.
		status = http.StatusBadGateway
	}
	writeJSON(w, status, report)
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	var req InterpretRequest
	if !s.decode(w, r, &req) {
		return
	}

	src := analyzer.Source{Path: filename(req.Filename), Content: req.Code}
	if !s.validate(w, src) {
		return
	}

	report := analyzer.BuildReport(src, req.Response)
	writeJSON(w, http.StatusOK, report)
}

// decode reads a JSON body into v, answering 413 or 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := r.Body
	if s.maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, 2*s.maxBytes+envelopeBytes)
	}

	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

func (s *Server) validate(w http.ResponseWriter, src analyzer.Source) bool {
	if err := analyzer.Validate(src, s.maxBytes); err != nil {
		s.writeSourceError(w, err)
		return false
	}
	return true
}

func (s *Server) writeSourceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analyzer.ErrSourceTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, analyzer.ErrEmptySource):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func filename(name string) string {
	if name == "" {
		return defaultFilename
	}
	return name
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
