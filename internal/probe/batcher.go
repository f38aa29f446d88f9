package probe

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MOYARU/posture/internal/baseline"
	"github.com/MOYARU/posture/internal/engine"
)

const (
	defaultBatchSize = 10
	defaultTimeout   = 6 * time.Second
)

// Batcher runs probe descriptors against one origin in fixed-size
// concurrent batches, so a slow host neither serializes hundreds of
// round trips nor gets hammered by unbounded fan-out.
type Batcher struct {
	client    *http.Client
	origin    string
	fp        *baseline.Fingerprinter
	batchSize int
	timeout   time.Duration
}

// NewBatcher wires a batcher to a shared HTTP client and a per-scan
// baseline fingerprinter. fp may be nil; probes then run unfiltered.
func NewBatcher(client *http.Client, origin string, fp *baseline.Fingerprinter, batchSize int, timeout time.Duration) *Batcher {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Batcher{
		client:    client,
		origin:    strings.TrimSuffix(origin, "/"),
		fp:        fp,
		batchSize: batchSize,
		timeout:   timeout,
	}
}

// Run executes all descriptors and returns one Result per descriptor in
// input order. It never returns an error: per-probe failures are folded
// into Skipped results so one dead endpoint cannot sink the batch.
func (b *Batcher) Run(ctx context.Context, probes []Descriptor) []Result {
	results := make([]Result, len(probes))

	for start := 0; start < len(probes); start += b.batchSize {
		end := start + b.batchSize
		if end > len(probes) {
			end = len(probes)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = b.runOne(ctx, probes[i])
			}(i)
		}
		wg.Wait()

		if ctx.Err() != nil {
			for i := end; i < len(probes); i++ {
				results[i] = Result{
					Descriptor: probes[i],
					Status:     StatusSkipped,
					SkipReason: "scan cancelled",
				}
			}
			break
		}
	}

	return results
}

func (b *Batcher) runOne(ctx context.Context, d Descriptor) Result {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = b.timeout
	}

	resp, err := engine.Fetch(ctx, b.client, d.method(), b.origin+d.Path, timeout)
	if err != nil {
		reason := "request failed"
		if engine.IsTimeout(err) {
			reason = "request timed out"
		}
		return Result{Descriptor: d, Status: StatusSkipped, SkipReason: reason}
	}

	if b.matchesBaseline(ctx, resp) {
		return Result{
			Descriptor: d,
			Status:     StatusMiss,
			HTTPStatus: resp.StatusCode,
			SkipReason: "matches catch-all baseline",
		}
	}

	status, evidence := evaluate(d, resp.StatusCode, resp.ContentType(), resp.Body)
	return Result{
		Descriptor: d,
		Status:     status,
		HTTPStatus: resp.StatusCode,
		Evidence:   evidence,
	}
}

func (b *Batcher) matchesBaseline(ctx context.Context, resp *engine.Response) bool {
	if b.fp == nil {
		return false
	}
	fp, err := b.fp.Get(ctx)
	if err != nil {
		// No baseline means no filtering; validators still apply.
		return false
	}
	return fp.MatchesCatchAll(resp.StatusCode, resp.ContentType(), resp.Body)
}
