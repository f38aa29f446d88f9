package vulndb

import (
	"context"
	"strings"

	"github.com/MOYARU/posture/internal/report"
)

// VulnerabilityMatch ties a detected technology to one known
// vulnerability, from either source.
type VulnerabilityMatch struct {
	TechName        string
	MatchedVersion  string
	VulnerabilityID string
	Severity        report.Severity
	FixVersion      string
	Summary         string
	Source          string // "live" or "fallback"
}

// LiveSource is the live database surface the correlator consumes.
// *Client satisfies it; tests substitute their own.
type LiveSource interface {
	Query(ctx context.Context, ecosystem, pkg, version string) ([]LiveVuln, error)
}

// Correlator merges the live vulnerability database with the hardcoded
// fallback table.
type Correlator struct {
	live       LiveSource
	maxPerTech int
}

// NewCorrelator builds a correlator. live may be nil, in which case only
// the fallback table is consulted.
func NewCorrelator(live LiveSource, maxPerTech int) *Correlator {
	if maxPerTech <= 0 {
		maxPerTech = 5
	}
	return &Correlator{live: live, maxPerTech: maxPerTech}
}

// Correlate resolves each versioned technology against both sources. The
// live source is primary; fallback entries are added only for identifiers
// the live source did not produce. A live-source failure degrades to
// fallback-only silently: correlation never fails a scan.
func (c *Correlator) Correlate(ctx context.Context, techs []Technology) []VulnerabilityMatch {
	var out []VulnerabilityMatch

	for _, tech := range techs {
		if tech.Version == "" {
			continue
		}

		seen := make(map[string]struct{})

		if c.live != nil {
			if eco, pkg, ok := EcosystemPackage(tech.Name); ok {
				live, err := c.live.Query(ctx, eco, pkg, tech.Version)
				if err == nil {
					for _, v := range live {
						if len(seen) >= c.maxPerTech {
							break
						}
						key := v.DedupKey()
						if _, dup := seen[key]; dup {
							continue
						}
						seen[key] = struct{}{}
						out = append(out, VulnerabilityMatch{
							TechName:        tech.Name,
							MatchedVersion:  tech.Version,
							VulnerabilityID: key,
							Severity:        v.Severity,
							FixVersion:      v.FixVersion,
							Summary:         v.Summary,
							Source:          "live",
						})
					}
				}
			}
		}

		for _, entry := range FallbackTable {
			if !strings.EqualFold(entry.Tech, tech.Name) {
				continue
			}
			if !IsBelow(tech.Version, entry.BelowVersion) {
				continue
			}
			key := entry.DedupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, VulnerabilityMatch{
				TechName:        tech.Name,
				MatchedVersion:  tech.Version,
				VulnerabilityID: key,
				Severity:        entry.Severity,
				FixVersion:      entry.FixVersion,
				Summary:         entry.Summary,
				Source:          "fallback",
			})
		}
	}

	return out
}
