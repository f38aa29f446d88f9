// Package signature applies a table of named secret patterns to response
// bodies and classifies the raw matches: low-entropy shapes are discarded,
// known publishable keys are downgraded to informational, duplicates are
// reported once, and every value is redacted before it can reach a finding.
package signature

import (
	"math"
	"regexp"
	"sync"

	"github.com/MOYARU/posture/internal/report"
)

// contextRadius bounds how much surrounding text travels with a match.
const contextRadius = 100

// Pattern is one named secret shape. Patterns are data: the matcher never
// branches on a specific pattern name.
type Pattern struct {
	Name     string
	Regex    *regexp.Regexp
	Severity report.Severity
	// ValueGroup selects the submatch carrying the secret value; 0 means
	// the whole match.
	ValueGroup int
	// RequiresContext marks generic high-noise shapes that are only
	// credible when the matched value has secret-like entropy.
	RequiresContext bool
}

// Match is one classified pattern hit.
type Match struct {
	PatternName     string
	Value           string
	Offset          int
	Context         string
	Severity        report.Severity
	Downgraded      bool
	DowngradeReason string
}

// Matcher holds per-scan classification state. A value is reported at most
// once per scan, first match wins, across every body the scan inspects.
type Matcher struct {
	entropyMin float64

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMatcher(entropyMin float64) *Matcher {
	if entropyMin <= 0 {
		entropyMin = 4.0
	}
	return &Matcher{
		entropyMin: entropyMin,
		seen:       make(map[string]struct{}),
	}
}

// MatchAll runs every pattern over text and returns the classified,
// deduplicated matches.
func (m *Matcher) MatchAll(patterns []Pattern, text string) []Match {
	var out []Match
	for _, p := range patterns {
		locs := p.Regex.FindAllStringSubmatchIndex(text, -1)
		for _, loc := range locs {
			value, offset := extractValue(text, loc, p.ValueGroup)
			if value == "" {
				continue
			}
			if looksLikePlaceholder(value) {
				continue
			}
			if p.RequiresContext && shannonEntropy(value) < m.entropyMin {
				continue
			}
			if !m.markSeen(value) {
				continue
			}

			ctx := surrounding(text, offset, len(value))
			match := Match{
				PatternName: p.Name,
				Value:       value,
				Offset:      offset,
				Context:     ctx,
				Severity:    p.Severity,
			}
			if reason, ok := allowlisted(value, ctx); ok {
				// Still reported, for transparency, but never above info.
				match.Severity = report.SeverityInfo
				match.Downgraded = true
				match.DowngradeReason = reason
			}
			out = append(out, match)
		}
	}
	return out
}

func (m *Matcher) markSeen(value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[value]; ok {
		return false
	}
	m.seen[value] = struct{}{}
	return true
}

func extractValue(text string, loc []int, group int) (string, int) {
	idx := 2 * group
	if idx+1 >= len(loc) || loc[idx] < 0 {
		idx = 0
	}
	return text[loc[idx]:loc[idx+1]], loc[idx]
}

func surrounding(text string, offset, length int) string {
	start := offset - contextRadius
	if start < 0 {
		start = 0
	}
	end := offset + length + contextRadius
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

var placeholderRegex = regexp.MustCompile(`(?i)(example|sample|dummy|changeme|your[_-]?api[_-]?key|your[_-]?token|replace[_-]?me|placeholder|xxxx|0000000000)`)

func looksLikePlaceholder(v string) bool {
	return placeholderRegex.MatchString(v)
}

func shannonEntropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	counts := make(map[rune]float64)
	for _, r := range s {
		counts[r]++
	}
	var h float64
	n := float64(len(s))
	for _, c := range counts {
		p := c / n
		h -= p * (math.Log(p) / math.Log(2))
	}
	return h
}
