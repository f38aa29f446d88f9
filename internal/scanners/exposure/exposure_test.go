package exposure

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MOYARU/posture/internal/baseline"
	"github.com/MOYARU/posture/internal/config"
	"github.com/MOYARU/posture/internal/report"
	ctxpkg "github.com/MOYARU/posture/internal/scanners/context"
	"github.com/MOYARU/posture/internal/target"
)

func TestLoadProbes(t *testing.T) {
	probes, err := LoadProbes()
	if err != nil {
		t.Fatalf("LoadProbes() error: %v", err)
	}
	if len(probes) == 0 {
		t.Fatal("expected a non-empty probe table")
	}
	for _, p := range probes {
		if p.ID == "" || p.Path == "" {
			t.Fatalf("incomplete probe: %+v", p)
		}
		if !p.SeverityIfHit.IsValid() {
			t.Fatalf("probe %s has invalid severity", p.ID)
		}
	}
}

func exposureContext(t *testing.T, srvURL string, client *http.Client) *ctxpkg.Context {
	t.Helper()
	tgt, err := target.ParseAllowInternal(srvURL)
	if err != nil {
		t.Fatalf("ParseAllowInternal(%q) error: %v", srvURL, err)
	}
	cfg := config.Default()
	return &ctxpkg.Context{
		Target:         tgt,
		RequestContext: context.Background(),
		Baseline:       baseline.NewFingerprinter(client, tgt.Origin(), 5*time.Second, 0.05),
		HTTPClient:     client,
		Config:         cfg,
	}
}

func TestRunReportsVerifiedEnvExposure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/.env" {
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, "DB_PASSWORD=hunter2\nAPP_KEY=base64secret\n")
			return
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "<html><body>404 page not found here sorry</body></html>")
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	findings, err := Run(exposureContext(t, srv.URL, client))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var env *report.Finding
	for i := range findings {
		if findings[i].ID == "EXPOSED_ENV_FILE" {
			env = &findings[i]
		}
	}
	if env == nil {
		t.Fatalf("expected an EXPOSED_ENV_FILE finding, got %v", findings)
	}
	if env.Severity != report.SeverityCritical {
		t.Fatalf("unexpected severity: %s", env.Severity)
	}
	if !strings.Contains(env.Message, "/.env") {
		t.Fatalf("message should name the probed path: %q", env.Message)
	}
}

func TestRunSPACatchAllProducesNoExposureFindings(t *testing.T) {
	// Every path returns the identical SPA shell with HTTP 200.
	shell := "<html><body><div id=\"root\"></div>" + strings.Repeat("<!-- app -->", 20) + "</body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, shell)
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	findings, err := Run(exposureContext(t, srv.URL, client))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(findings) != 1 {
		t.Fatalf("expected only the clean-scan info finding, got %v", findings)
	}
	if findings[0].ID != "NO_EXPOSED_PATHS_FOUND" || findings[0].Severity != report.SeverityInfo {
		t.Fatalf("unexpected finding: %+v", findings[0])
	}
}

func TestRunCleanTargetReportsInfoFinding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "not found")
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	findings, err := Run(exposureContext(t, srv.URL, client))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(findings) != 1 || findings[0].ID != "NO_EXPOSED_PATHS_FOUND" {
		t.Fatalf("unexpected findings: %v", findings)
	}
}
