package engine

import (
	"net/http"
	"sync/atomic"
	"time"
)

// TransportStats is one scanner family's request accounting: how many
// probes it sent, how many failed outright, and the cumulative wall time
// spent on the wire.
type TransportStats struct {
	Requests int64
	Failures int64
	Duration time.Duration
}

// MetricsTransport counts requests per scanner family. The runner wraps
// each family's client with one so a scan report can attribute request
// volume to the family that caused it.
type MetricsTransport struct {
	Base      http.RoundTripper
	requests  int64
	failures  int64
	durationN int64
}

func (t *MetricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	atomic.AddInt64(&t.requests, 1)
	if err != nil {
		atomic.AddInt64(&t.failures, 1)
	}
	atomic.AddInt64(&t.durationN, time.Since(start).Nanoseconds())
	return resp, err
}

func (t *MetricsTransport) Snapshot() TransportStats {
	return TransportStats{
		Requests: atomic.LoadInt64(&t.requests),
		Failures: atomic.LoadInt64(&t.failures),
		Duration: time.Duration(atomic.LoadInt64(&t.durationN)),
	}
}
