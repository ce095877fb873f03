// Package api exposes the re-layout pipeline over HTTP for service
// deployments: transform a document, render a composite, inspect health.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dzazaleo/layerforge/pkg/buildinfo"
	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/errors"
	"github.com/dzazaleo/layerforge/pkg/pipeline"
	"github.com/dzazaleo/layerforge/pkg/source"
)

// Server handles HTTP requests against a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around the given runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/transform", s.handleTransform)
		r.Post("/render", s.handleRender)
	})
	return r
}

// transformRequest is the request body for both endpoints: the serializable
// pipeline options plus the document itself.
type transformRequest struct {
	Document *design.Document `json:"document"`
	pipeline.Options
}

// transformResponse carries the reconciled payload plus run metadata.
type transformResponse struct {
	Payload     *design.Payload    `json:"payload"`
	PayloadHash string             `json:"payload_hash"`
	Diagnostics []string           `json:"diagnostics,omitempty"`
	CacheInfo   pipeline.CacheInfo `json:"cache_info"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transformResponse{
		Payload:     result.Payload,
		PayloadHash: result.PayloadHash,
		Diagnostics: result.Diagnostics,
		CacheInfo:   result.CacheInfo,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decodeOptions(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{pipeline.FormatPNG}
	if dir := r.URL.Query().Get("pixels_dir"); dir != "" {
		opts.Pixels = source.NewDirSource(dir)
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[pipeline.FormatPNG])
}

func (s *Server) decodeOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	var req transformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding request body"))
		return pipeline.Options{}, false
	}
	opts := req.Options
	opts.Document = req.Document
	opts.Logger = s.logger
	return opts, true
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case errors.IsPrecondition(err):
		status = http.StatusBadRequest
	case code == errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case code == errors.ErrCodeStoreUnavailable:
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
