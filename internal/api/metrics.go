package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "posture",
		Name:      "scans_total",
		Help:      "Completed API scan requests by outcome.",
	}, []string{"outcome"})

	scanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "posture",
		Name:      "scan_duration_seconds",
		Help:      "Wall time of successful API scans.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 8),
	})

	authFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "posture",
		Name:      "auth_failures_total",
		Help:      "Requests rejected by scanner-key authentication.",
	})
)
