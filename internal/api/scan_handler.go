package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/MOYARU/posture/internal/app/scan"
	"github.com/MOYARU/posture/internal/report"
	"github.com/MOYARU/posture/internal/scanners/registry"
	"github.com/MOYARU/posture/internal/scanners/runner"
	"github.com/MOYARU/posture/internal/target"
)

const maxRequestBody = 16 << 10

type scanRequest struct {
	TargetURL string   `json:"targetUrl"`
	Scanners  []string `json:"scanners,omitempty"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TargetURL == "" {
		writeJSONError(w, http.StatusBadRequest, "targetUrl is required")
		return
	}

	families, err := registry.Select(req.Scanners)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	started := time.Now()
	rep, err := scan.Run(r.Context(), s.cfg, req.TargetURL, families)
	if err != nil {
		var rejected *target.ErrRejected
		if errors.As(err, &rejected) {
			scansTotal.WithLabelValues("rejected").Inc()
			writeJSONError(w, http.StatusBadRequest, rejected.Error())
			return
		}
		var unreachable *runner.ErrUnreachable
		if errors.As(err, &unreachable) {
			scansTotal.WithLabelValues("unreachable").Inc()
			writeJSONError(w, http.StatusBadGateway, "target unreachable")
			return
		}
		// Details stay in the server log; the caller gets the generic
		// failure shape.
		s.logger.Printf("scan of %q failed: %v", req.TargetURL, err)
		scansTotal.WithLabelValues("error").Inc()
		writeScanFailure(w)
		return
	}

	scansTotal.WithLabelValues("ok").Inc()
	scanDuration.Observe(time.Since(started).Seconds())
	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeScanFailure emits the fixed internal-error contract: generic
// message, zero score, empty finding list.
func writeScanFailure(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, struct {
		Error    string           `json:"error"`
		Score    int              `json:"score"`
		Findings []report.Finding `json:"findings"`
	}{
		Error:    "scan failed",
		Score:    0,
		Findings: []report.Finding{},
	})
}
