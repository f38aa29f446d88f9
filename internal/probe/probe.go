// Package probe executes path-existence probes against a target in
// bounded concurrent batches. A probe only ever reports Hit when its
// response survives the catch-all baseline filter and passes its
// validators; errors and timeouts degrade to Skipped, never to a hit.
package probe

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/MOYARU/posture/internal/report"
)

// Descriptor declares one probe. Pure data, owned by the calling
// scanner, immutable once built.
type Descriptor struct {
	ID            string
	Title         string
	Path          string
	Method        string
	SeverityIfHit report.Severity

	// MatchPatterns gate a hit on body content. With at least one
	// pattern declared, a 2xx response alone is never a hit.
	MatchPatterns []*regexp.Regexp

	// Timeout overrides the batcher default for slow endpoints.
	Timeout time.Duration
}

func (d Descriptor) method() string {
	if d.Method == "" {
		return http.MethodGet
	}
	return d.Method
}

type Status string

const (
	StatusHit     Status = "HIT"
	StatusMiss    Status = "MISS"
	StatusSkipped Status = "SKIPPED"
)

// Result records one probe outcome. Skipped carries the reason so
// callers (and tests) can distinguish a timeout from a refused
// connection from a baseline discard.
type Result struct {
	Descriptor Descriptor
	Status     Status
	HTTPStatus int
	Evidence   string
	SkipReason string
}

func (r Result) Hit() bool {
	return r.Status == StatusHit
}

const (
	evidenceSnippetLen = 120

	// A bare 2xx with no pattern validator only counts as a hit when the
	// body is tiny or typed like raw data. Default HTML 200 pages fail
	// both heuristics.
	smallBodyBytes = 50
)

func evaluate(d Descriptor, status int, contentType string, body []byte) (Status, string) {
	if status < 200 || status >= 300 {
		return StatusMiss, ""
	}

	if len(d.MatchPatterns) > 0 {
		for _, re := range d.MatchPatterns {
			if loc := re.FindIndex(body); loc != nil {
				return StatusHit, snippetAround(body, loc[0], loc[1])
			}
		}
		return StatusMiss, ""
	}

	if len(body) < smallBodyBytes {
		return StatusHit, snippetAround(body, 0, len(body))
	}
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "application/json") || strings.Contains(ct, "text/plain") {
		return StatusHit, snippetAround(body, 0, len(body))
	}
	return StatusMiss, ""
}

func snippetAround(body []byte, start, end int) string {
	if end-start > evidenceSnippetLen {
		end = start + evidenceSnippetLen
	}
	if end > len(body) {
		end = len(body)
	}
	return strings.ToValidUTF8(string(body[start:end]), "?")
}
