// Package baseline fingerprints a target's catch-all response. Many sites
// route every unknown path to the same SPA shell or custom error page with
// HTTP 200; probes compare their responses against this fingerprint so
// such pages are not reported as exposed endpoints.
package baseline

import (
	"context"
	"crypto/rand"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spaolacci/murmur3"

	"github.com/MOYARU/posture/internal/engine"
)

// Fingerprint captures the response to a path that cannot exist.
type Fingerprint struct {
	Status      int
	BodyHash    uint32
	BodyLength  int
	ContentType string

	// Tolerance is the relative body-length slack for the weaker
	// content-type match, e.g. 0.05 for ±5%.
	Tolerance float64
}

// HashBody computes the cheap non-cryptographic body hash. Collisions are
// acceptable; this is a heuristic, not a security boundary.
func HashBody(body []byte) uint32 {
	return murmur3.Sum32(body)
}

// MatchesCatchAll reports whether a probe response looks like the origin's
// catch-all page: identical status and body hash, or same content type
// with a body length inside the tolerance window.
func (f *Fingerprint) MatchesCatchAll(status int, contentType string, body []byte) bool {
	if f == nil {
		return false
	}
	if status == f.Status && HashBody(body) == f.BodyHash {
		return true
	}
	if f.ContentType != "" && baseContentType(contentType) == baseContentType(f.ContentType) {
		return withinTolerance(len(body), f.BodyLength, f.tolerance())
	}
	return false
}

func (f *Fingerprint) tolerance() float64 {
	if f.Tolerance > 0 {
		return f.Tolerance
	}
	return 0.05
}

func withinTolerance(got, want int, tol float64) bool {
	if want == 0 {
		return got == 0
	}
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) < float64(want)*tol
}

func baseContentType(ct string) string {
	ct = strings.TrimSpace(strings.ToLower(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}

// Fingerprinter lazily computes one fingerprint per scan. The first caller
// pays for the request; everyone else reuses the cached result. A failed
// fingerprint attempt is cached too: probes then run unfiltered rather
// than re-requesting the baseline on every probe.
type Fingerprinter struct {
	client    *http.Client
	origin    string
	timeout   time.Duration
	tolerance float64

	once sync.Once
	fp   *Fingerprint
	err  error
}

func NewFingerprinter(client *http.Client, origin string, timeout time.Duration, tolerance float64) *Fingerprinter {
	return &Fingerprinter{
		client:    client,
		origin:    origin,
		timeout:   timeout,
		tolerance: tolerance,
	}
}

// Get returns the scan's baseline fingerprint, computing it on first use.
func (l *Fingerprinter) Get(ctx context.Context) (*Fingerprint, error) {
	l.once.Do(func() {
		l.fp, l.err = l.fingerprint(ctx)
	})
	return l.fp, l.err
}

func (l *Fingerprinter) fingerprint(ctx context.Context) (*Fingerprint, error) {
	probeURL := strings.TrimSuffix(l.origin, "/") + "/__scan_nonexistent_" + randomToken(16)

	resp, err := engine.Fetch(ctx, l.client, http.MethodGet, probeURL, l.timeout)
	if err != nil {
		return nil, err
	}

	return &Fingerprint{
		Status:      resp.StatusCode,
		BodyHash:    HashBody(resp.Body),
		BodyLength:  len(resp.Body),
		ContentType: resp.ContentType(),
		Tolerance:   l.tolerance,
	}, nil
}

func randomToken(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	result := make([]byte, length)
	charsetLen := big.NewInt(int64(len(charset)))
	for i := range result {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			result[i] = charset[0]
			continue
		}
		result[i] = charset[n.Int64()]
	}
	return string(result)
}
