// Package runner executes every scanner family against one target with
// bounded fan-out. One family failing or timing out never aborts the
// scan; its error is reported alongside the other families' findings.
package runner

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/MOYARU/posture/internal/baseline"
	"github.com/MOYARU/posture/internal/config"
	"github.com/MOYARU/posture/internal/engine"
	"github.com/MOYARU/posture/internal/report"
	"github.com/MOYARU/posture/internal/scanners"
	ctxpkg "github.com/MOYARU/posture/internal/scanners/context"
	"github.com/MOYARU/posture/internal/target"
	"github.com/MOYARU/posture/internal/vulndb"

	gocontext "context"
)

// ErrUnreachable marks a scan whose initial page fetch failed: the
// target did not answer, as opposed to the scanner itself breaking.
// Callers can map it to a distinct response (the API returns 502, not
// the generic 500).
type ErrUnreachable struct {
	Err error
}

func (e *ErrUnreachable) Error() string {
	return fmt.Sprintf("target unreachable: %v", e.Err)
}

func (e *ErrUnreachable) Unwrap() error { return e.Err }

type Runner struct {
	target   *target.Target
	families []scanners.Family
	client   *http.Client
	cfg      *config.Config
	vulnDB   vulndb.LiveSource
}

// Result is one scan's raw output before sanitization and scoring.
// Stats records per-family request volume and wall time, surfaced in
// verbose CLI output.
type Result struct {
	FindingsByFamily map[string][]report.Finding
	Errors           map[string]error
	Stats            map[string]engine.TransportStats
}

func New(t *target.Target, families []scanners.Family, client *http.Client, cfg *config.Config, live vulndb.LiveSource) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if client == nil {
		client = engine.NewHTTPClient(false, nil)
	}
	return &Runner{
		target:   t,
		families: families,
		client:   client,
		cfg:      cfg,
		vulnDB:   live,
	}
}

func (r *Runner) workerCount() int {
	n := r.cfg.Scan.MaxConcurrency
	if n < 1 {
		n = 1
	}
	if len(r.families) < n {
		n = len(r.families)
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Run fetches the target's page once, then fans the families out over a
// semaphore. The returned error is non-nil only when the initial page
// fetch fails; per-family errors live in Result.Errors.
func (r *Runner) Run(ctx gocontext.Context) (*Result, error) {
	page, err := engine.Fetch(ctx, r.client, http.MethodGet, r.target.String(), r.cfg.Scan.PageTimeout)
	if err != nil {
		return nil, &ErrUnreachable{Err: err}
	}

	scanCtx := &ctxpkg.Context{
		Target:         r.target,
		RequestContext: ctx,
		Page:           page,
		BodyBytes:      page.Body,
		FinalURL:       page.FinalURL,
		Baseline: baseline.NewFingerprinter(
			r.client,
			r.target.Origin(),
			r.cfg.Scan.BaselineTimeout,
			r.cfg.Scan.BaselineTolerance,
		),
		VulnDB:     r.vulnDB,
		HTTPClient: r.client,
		Config:     r.cfg,
	}

	res := &Result{
		FindingsByFamily: make(map[string][]report.Finding),
		Errors:           make(map[string]error),
		Stats:            make(map[string]engine.TransportStats),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	sem := make(chan struct{}, r.workerCount())

	for _, family := range r.families {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(f scanners.Family) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			mt := &engine.MetricsTransport{Base: r.client.Transport}
			familyClient := *r.client
			familyClient.Transport = mt
			localCtx := *scanCtx
			localCtx.HTTPClient = &familyClient

			findings, err := f.Run(&localCtx)
			stats := mt.Snapshot()

			mu.Lock()
			defer mu.Unlock()
			res.Stats[f.ID] = stats
			if err != nil {
				res.Errors[f.ID] = err
				return
			}
			res.FindingsByFamily[f.ID] = findings
		}(family)
	}
	wg.Wait()

	return res, nil
}
