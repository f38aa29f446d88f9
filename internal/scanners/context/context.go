// Package context carries the shared per-scan state handed to each
// scanner family. It lives in its own package so families and the runner
// can both import it without a cycle.
package context

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MOYARU/posture/internal/baseline"
	"github.com/MOYARU/posture/internal/config"
	"github.com/MOYARU/posture/internal/engine"
	"github.com/MOYARU/posture/internal/target"
	"github.com/MOYARU/posture/internal/vulndb"
)

type Context struct {
	Target         *target.Target
	RequestContext context.Context

	// Page is the initial GET of the target, fetched once by the runner
	// and shared by every family. BodyBytes is its decoded body.
	Page      *engine.Response
	BodyBytes []byte
	FinalURL  *url.URL

	// Baseline is the lazy catch-all fingerprinter for this scan.
	Baseline *baseline.Fingerprinter

	// VulnDB is the live vulnerability source, nil when disabled.
	VulnDB vulndb.LiveSource

	HTTPClient *http.Client
	Config     *config.Config
}
