// Package api exposes the scanner over HTTP. One authenticated POST
// endpoint runs a scan; health and metrics endpoints support operations.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MOYARU/posture/internal/config"
	"github.com/MOYARU/posture/internal/version"
)

type Server struct {
	cfg    *config.Config
	logger *log.Logger
	router chi.Router
}

func NewServer(cfg *config.Config, logger *log.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, logger: logger}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": version.Value,
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/scan", func(r chi.Router) {
		r.Use(s.withCORS)
		r.With(s.requireScannerKey).Post("/", s.handleScan)
		// Preflight terminates in withCORS; the handler body is never
		// reached but the route must exist for dispatch.
		r.Options("/", func(w http.ResponseWriter, r *http.Request) {})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		})
	})

	return r
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.router,
	}
	s.logger.Printf("%s listening on %s", version.APIServerName(), s.cfg.Server.Addr)
	return srv.ListenAndServe()
}
