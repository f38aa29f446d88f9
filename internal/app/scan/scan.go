// Package scan orchestrates one full posture scan. Both the CLI and the
// HTTP API call Run; everything target-specific (client wiring, family
// fan-out, sanitization, scoring) happens here.
package scan

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	gocontext "context"

	"github.com/google/uuid"

	"github.com/MOYARU/posture/internal/config"
	"github.com/MOYARU/posture/internal/engine"
	"github.com/MOYARU/posture/internal/messages"
	"github.com/MOYARU/posture/internal/report"
	"github.com/MOYARU/posture/internal/scanners"
	"github.com/MOYARU/posture/internal/scanners/runner"
	"github.com/MOYARU/posture/internal/scoring"
	"github.com/MOYARU/posture/internal/target"
	"github.com/MOYARU/posture/internal/vulndb"
)

const scannerType = "posture"

// Run validates the raw target, executes every requested family and
// assembles the final report. A per-family failure becomes an
// informational "check skipped" finding; only target validation and the
// initial page fetch can fail the scan outright.
func Run(ctx gocontext.Context, cfg *config.Config, rawTarget string, families []scanners.Family) (*report.ScanReport, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	parse := target.Parse
	if cfg.Scan.AllowInternalTargets {
		parse = target.ParseAllowInternal
	}
	t, err := parse(rawTarget)
	if err != nil {
		return nil, err
	}

	client := newScanClient(cfg, t)

	var live vulndb.LiveSource
	if cfg.VulnDB.Enabled {
		live = vulndb.NewClient(cfg.VulnDB.BaseURL, cfg.VulnDB.Timeout, cfg.VulnDB.RatePerSec)
	}

	r := runner.New(t, families, client, cfg, live)
	res, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}

	findings := collectFindings(res)
	for i := range findings {
		findings[i] = report.SanitizeFinding(findings[i])
	}

	return &report.ScanReport{
		ScanID:      uuid.NewString(),
		ScannerType: scannerType,
		URL:         t.String(),
		Score:       scoring.Aggregate(findings, scoring.PolicyFromConfig(cfg.Score)),
		Findings:    findings,
		ScannedAt:   time.Now().UTC(),
		Errors:      errorStrings(res.Errors),
	}, nil
}

// newScanClient builds the shared scan client: redirects followed,
// request budget enforced, and requests confined to the target's root
// domain unless cross-domain scanning is enabled.
func newScanClient(cfg *config.Config, t *target.Target) *http.Client {
	client := engine.NewHTTPClient(true, nil)

	transport := client.Transport
	if !cfg.Scan.CrossDomain {
		transport = &engine.DomainBoundaryTransport{
			Base:              transport,
			AllowedRootDomain: engine.RootDomain(t.Hostname()),
		}
	}
	client.Transport = &engine.BudgetTransport{
		Base: transport,
		Max:  cfg.Scan.RequestBudget,
	}
	return client
}

// collectFindings flattens per-family results in registry order and
// appends one skipped-check notice per failed family.
func collectFindings(res *runner.Result) []report.Finding {
	ids := make([]string, 0, len(res.FindingsByFamily))
	for id := range res.FindingsByFamily {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var findings []report.Finding
	for _, id := range ids {
		findings = append(findings, res.FindingsByFamily[id]...)
	}

	errIDs := make([]string, 0, len(res.Errors))
	for id := range res.Errors {
		errIDs = append(errIDs, id)
	}
	sort.Strings(errIDs)
	for _, id := range errIDs {
		findings = append(findings, skippedFinding(id, res.Errors[id]))
	}

	return findings
}

func skippedFinding(familyID string, err error) report.Finding {
	msg := messages.GetMessage("CHECK_SKIPPED")
	reason := "unknown error"
	if err != nil {
		if engine.IsTimeout(err) {
			reason = "the check timed out"
		} else {
			reason = err.Error()
		}
	}
	return report.Finding{
		ID:                         "CHECK_SKIPPED",
		Severity:                   report.SeverityInfo,
		Title:                      fmt.Sprintf(msg.Title, familyID),
		Message:                    fmt.Sprintf(msg.Message, familyID, reason),
		Fix:                        msg.Fix,
		IsPotentiallyFalsePositive: msg.IsPotentiallyFalsePositive,
	}
}

func errorStrings(errs map[string]error) []string {
	if len(errs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(errs))
	for id := range errs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id+": "+errs[id].Error())
	}
	return out
}
