package api

import (
	"crypto/subtle"
	"net/http"
	"time"
)

const scannerKeyHeader = "x-scanner-key"

// requireScannerKey authenticates API callers. The comparison is
// constant-time, and an empty configured key rejects everything: an
// unconfigured server fails closed, never open.
func (s *Server) requireScannerKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := s.cfg.Server.ScannerKey
		presented := r.Header.Get(scannerKeyHeader)
		if key == "" || presented == "" ||
			subtle.ConstantTimeCompare([]byte(key), []byte(presented)) != 1 {
			authFailures.Inc()
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsHeaders applies the single-origin allowlist. A request from an
// unlisted origin gets the configured default origin back, never an echo
// of its own.
func (s *Server) corsHeaders(w http.ResponseWriter, r *http.Request) {
	allowed := s.cfg.Server.DefaultOrigin
	if origin := r.Header.Get("Origin"); origin != "" && origin == s.cfg.Server.AllowedOrigin {
		allowed = origin
	}
	w.Header().Set("Access-Control-Allow-Origin", allowed)
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+scannerKeyHeader)
	w.Header().Set("Vary", "Origin")
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsHeaders(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests writes one line per request to the server log. Bodies and
// headers are never logged; target URLs appear only in scan-level logs.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(rec, r)
		s.logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(started).Round(time.Millisecond))
	})
}

// recoverPanics converts a handler panic into the generic 500 contract.
// Details go to the server log only.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				writeScanFailure(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
