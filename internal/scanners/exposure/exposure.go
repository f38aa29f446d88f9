// Package exposure probes well-known sensitive paths (dotfiles, VCS
// metadata, backups, status endpoints) through the probe batcher. The
// probe table is data, embedded from probes.yaml.
package exposure

import (
	"fmt"
	"regexp"
	"time"

	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/MOYARU/posture/internal/messages"
	"github.com/MOYARU/posture/internal/probe"
	"github.com/MOYARU/posture/internal/report"
	"github.com/MOYARU/posture/internal/scanners"
	ctxpkg "github.com/MOYARU/posture/internal/scanners/context"
)

const familyID = "PATH_EXPOSURE"

//go:embed probes.yaml
var probesYAML []byte

type probeSpec struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Path     string   `yaml:"path"`
	Method   string   `yaml:"method"`
	Severity string   `yaml:"severity"`
	Timeout  string   `yaml:"timeout"`
	Patterns []string `yaml:"patterns"`
}

type probeTable struct {
	Probes []probeSpec `yaml:"probes"`
}

func Family() scanners.Family {
	return scanners.Family{
		ID:          familyID,
		Category:    scanners.CategoryFileExposure,
		Title:       "Sensitive Path Exposure",
		Description: "Probes well-known sensitive paths and verifies hits against the catch-all baseline.",
		Run:         Run,
	}
}

// LoadProbes parses the embedded probe table. An invalid table is a
// build defect, surfaced as an error rather than a panic so the scan
// degrades instead of crashing.
func LoadProbes() ([]probe.Descriptor, error) {
	var table probeTable
	if err := yaml.Unmarshal(probesYAML, &table); err != nil {
		return nil, fmt.Errorf("failed to parse probe table: %w", err)
	}

	descriptors := make([]probe.Descriptor, 0, len(table.Probes))
	for _, spec := range table.Probes {
		sev := report.Severity(spec.Severity)
		if !sev.IsValid() {
			return nil, fmt.Errorf("probe %s: unknown severity %q", spec.ID, spec.Severity)
		}

		var timeout time.Duration
		if spec.Timeout != "" {
			d, err := time.ParseDuration(spec.Timeout)
			if err != nil {
				return nil, fmt.Errorf("probe %s: bad timeout %q: %w", spec.ID, spec.Timeout, err)
			}
			timeout = d
		}

		var patterns []*regexp.Regexp
		for _, raw := range spec.Patterns {
			re, err := regexp.Compile(raw)
			if err != nil {
				return nil, fmt.Errorf("probe %s: bad pattern %q: %w", spec.ID, raw, err)
			}
			patterns = append(patterns, re)
		}

		descriptors = append(descriptors, probe.Descriptor{
			ID:            spec.ID,
			Title:         spec.Title,
			Path:          spec.Path,
			Method:        spec.Method,
			SeverityIfHit: sev,
			MatchPatterns: patterns,
			Timeout:       timeout,
		})
	}
	return descriptors, nil
}

func Run(ctx *ctxpkg.Context) ([]report.Finding, error) {
	descriptors, err := LoadProbes()
	if err != nil {
		return nil, err
	}

	b := probe.NewBatcher(
		ctx.HTTPClient,
		ctx.Target.Origin(),
		ctx.Baseline,
		ctx.Config.Scan.BatchSize,
		ctx.Config.Scan.ProbeTimeout,
	)
	results := b.Run(ctx.RequestContext, descriptors)

	var findings []report.Finding
	for _, r := range results {
		if !r.Hit() {
			continue
		}
		msg := messages.GetMessage(r.Descriptor.ID)
		// A pattern-validated hit is near certain; a hit from the bare
		// small-body heuristic is not.
		confidence := report.ConfidenceHigh
		if len(r.Descriptor.MatchPatterns) == 0 {
			confidence = report.ConfidenceLow
		}
		f := report.Finding{
			ID:                         r.Descriptor.ID,
			Category:                   string(scanners.CategoryFileExposure),
			Severity:                   r.Descriptor.SeverityIfHit,
			Confidence:                 confidence,
			Title:                      msg.Title,
			Message:                    fmt.Sprintf("%s Probed path: %s (HTTP %d).", msg.Message, r.Descriptor.Path, r.HTTPStatus),
			Evidence:                   r.Evidence,
			Fix:                        msg.Fix,
			IsPotentiallyFalsePositive: msg.IsPotentiallyFalsePositive,
		}
		findings = append(findings, f)
	}

	if len(findings) == 0 {
		msg := messages.GetMessage("NO_EXPOSED_PATHS_FOUND")
		findings = append(findings, report.Finding{
			ID:       "NO_EXPOSED_PATHS_FOUND",
			Category: string(scanners.CategoryFileExposure),
			Severity: report.SeverityInfo,
			Title:    msg.Title,
			Message:  msg.Message,
			Fix:      msg.Fix,
		})
	}

	return findings, nil
}
