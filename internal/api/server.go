// SPDX-License-Identifier: MIT

// Package api provides the HTTP boundary of the dampdf service. It is a
// thin layer: request validation and error mapping live here, all job state
// lives behind the processing orchestrator.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dampdf/dampdf/internal/artifact"
	"github.com/dampdf/dampdf/internal/config"
	"github.com/dampdf/dampdf/internal/log"
	"github.com/dampdf/dampdf/internal/processing"
	"github.com/dampdf/dampdf/internal/session"
)

// Server wires the HTTP handlers to their collaborators.
type Server struct {
	cfg       config.AppConfig
	sessions  *session.Manager
	artifacts artifact.Store
	orch      *processing.Orchestrator
	logger    zerolog.Logger
}

// NewServer creates the HTTP server component.
func NewServer(cfg config.AppConfig, sessions *session.Manager, artifacts artifact.Store, orch *processing.Orchestrator) *Server {
	return &Server{
		cfg:       cfg,
		sessions:  sessions,
		artifacts: artifacts,
		orch:      orch,
		logger:    log.WithComponent("api"),
	}
}

// Router builds the chi router with the canonical middleware stack.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(Recoverer)
	r.Use(RequestID)
	r.Use(CORS(s.cfg.AllowedOrigins))
	r.Use(log.Middleware())

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(s.cfg.RateLimitRPM))
		r.Post("/files/upload", s.handleUpload)
		r.Post("/process/start", s.handleStart)
		r.Get("/process/status/{sessionID}", s.handleStatus)
		r.Get("/download/file/{sessionID}", s.handleDownload)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
