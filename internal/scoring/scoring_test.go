package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MOYARU/posture/internal/report"
)

func finding(cat string, sev report.Severity) report.Finding {
	return report.Finding{ID: "T1", Category: cat, Severity: sev, Title: "t"}
}

func TestAggregateCleanTargetScoresFull(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 100, Aggregate(nil, p))

	// Informational findings carry no deduction.
	fs := []report.Finding{
		finding("SECRETS", report.SeverityInfo),
		finding("COMPONENTS", report.SeverityInfo),
	}
	assert.Equal(t, 100, Aggregate(fs, p))
}

func TestAggregateSingleDeductions(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		sev  report.Severity
		want int
	}{
		{report.SeverityCritical, 75},
		{report.SeverityHigh, 85},
		{report.SeverityMedium, 92},
		{report.SeverityLow, 97},
		{report.SeverityInfo, 100},
	}
	for _, tc := range cases {
		got := Aggregate([]report.Finding{finding("SECRETS", tc.sev)}, p)
		assert.Equal(t, tc.want, got, "severity %s", tc.sev)
	}
}

func TestAggregateCategoryCap(t *testing.T) {
	p := DefaultPolicy()

	// Ten criticals in one category stop deducting at the cap.
	var fs []report.Finding
	for i := 0; i < 10; i++ {
		fs = append(fs, finding("SECRETS", report.SeverityCritical))
	}
	assert.Equal(t, 100-p.CategoryCap, Aggregate(fs, p))

	// The same findings spread over distinct categories are not capped
	// together, so the clamp takes over instead.
	var spread []report.Finding
	cats := []string{"A", "B", "C", "D", "E"}
	for _, c := range cats {
		spread = append(spread, finding(c, report.SeverityCritical))
		spread = append(spread, finding(c, report.SeverityCritical))
	}
	assert.Equal(t, 0, Aggregate(spread, p))
}

func TestAggregateClampsAtZero(t *testing.T) {
	p := Policy{Critical: 60, High: 40, CategoryCap: 100}
	fs := []report.Finding{
		finding("A", report.SeverityCritical),
		finding("B", report.SeverityCritical),
		finding("C", report.SeverityHigh),
	}
	assert.Equal(t, 0, Aggregate(fs, p))
}

func TestAggregateOrderIndependent(t *testing.T) {
	p := DefaultPolicy()
	fs := []report.Finding{
		finding("SECRETS", report.SeverityCritical),
		finding("SECRETS", report.SeverityHigh),
		finding("EXPOSURE", report.SeverityMedium),
		finding("COMPONENTS", report.SeverityLow),
		finding("", report.SeverityMedium),
		finding("HEADERS", report.SeverityLow),
	}
	want := Aggregate(fs, p)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 25; i++ {
		shuffled := make([]report.Finding, len(fs))
		copy(shuffled, fs)
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, Aggregate(shuffled, p))
	}
}

func TestAggregateEmptyCategoryShareOneCap(t *testing.T) {
	p := DefaultPolicy()
	var fs []report.Finding
	for i := 0; i < 10; i++ {
		fs = append(fs, finding("", report.SeverityCritical))
	}
	assert.Equal(t, 100-p.CategoryCap, Aggregate(fs, p))
}

func TestAggregateUnknownSeverityIgnored(t *testing.T) {
	p := DefaultPolicy()
	fs := []report.Finding{finding("A", report.Severity("BOGUS"))}
	assert.Equal(t, 100, Aggregate(fs, p))
}
