package vulndb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOYARU/posture/internal/report"
)

type fakeLive struct {
	vulns map[string][]LiveVuln
	err   error
	calls int
}

func (f *fakeLive) Query(_ context.Context, _, pkg, _ string) ([]LiveVuln, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vulns[pkg], nil
}

func TestCorrelateFallbackOnlyForUnmappedTech(t *testing.T) {
	// apache has no ecosystem mapping: the live source must not be
	// consulted and the fallback table supplies the match.
	live := &fakeLive{}
	c := NewCorrelator(live, 5)

	matches := c.Correlate(context.Background(), []Technology{
		{Name: "apache", Version: "2.4.49"},
	})

	require.Len(t, matches, 1)
	assert.Equal(t, "CVE-2021-42013", matches[0].VulnerabilityID)
	assert.Equal(t, "fallback", matches[0].Source)
	assert.Equal(t, 0, live.calls)
}

func TestCorrelateLiveIsPrimaryAndDeduped(t *testing.T) {
	live := &fakeLive{vulns: map[string][]LiveVuln{
		"jquery": {
			{ID: "GHSA-gxr4-xjj5-5px2", Aliases: []string{"CVE-2020-11022"}, Severity: report.SeverityMedium, FixVersion: "3.5.0"},
			{ID: "GHSA-257q-pV89-V3xv", Aliases: []string{"CVE-2020-11023"}, Severity: report.SeverityMedium, FixVersion: "3.5.0"},
		},
	}}
	c := NewCorrelator(live, 5)

	matches := c.Correlate(context.Background(), []Technology{
		{Name: "jquery", Version: "3.3.1"},
	})

	ids := make(map[string]string)
	for _, m := range matches {
		ids[m.VulnerabilityID] = m.Source
	}

	// CVE-2020-11022 exists in both sources; the live copy must win and
	// the fallback copy must not duplicate it.
	assert.Equal(t, "live", ids["CVE-2020-11022"])
	assert.Equal(t, "live", ids["CVE-2020-11023"])
	// 3.3.1 < 3.4.0, so the fallback-only entry still applies.
	assert.Equal(t, "fallback", ids["CVE-2019-11358"])
	for id := range ids {
		assert.NotEmpty(t, id)
	}
}

func TestCorrelateLiveFailureDegradesToFallback(t *testing.T) {
	live := &fakeLive{err: errors.New("boom")}
	c := NewCorrelator(live, 5)

	matches := c.Correlate(context.Background(), []Technology{
		{Name: "jquery", Version: "1.0.0"},
	})

	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Equal(t, "fallback", m.Source)
	}
}

func TestCorrelateCapsPerTechnology(t *testing.T) {
	many := make([]LiveVuln, 20)
	for i := range many {
		many[i] = LiveVuln{ID: string(rune('A'+i)) + "-vuln", Severity: report.SeverityLow}
	}
	live := &fakeLive{vulns: map[string][]LiveVuln{"lodash": many}}
	c := NewCorrelator(live, 5)

	matches := c.Correlate(context.Background(), []Technology{
		{Name: "lodash", Version: "4.17.20"},
	})

	liveCount := 0
	for _, m := range matches {
		if m.Source == "live" {
			liveCount++
		}
	}
	assert.Equal(t, 5, liveCount)
}

func TestCorrelateSkipsVersionlessTech(t *testing.T) {
	live := &fakeLive{}
	c := NewCorrelator(live, 5)
	matches := c.Correlate(context.Background(), []Technology{{Name: "jquery"}})
	assert.Empty(t, matches)
	assert.Equal(t, 0, live.calls)
}

func TestCorrelateNilLiveUsesFallback(t *testing.T) {
	c := NewCorrelator(nil, 5)
	matches := c.Correlate(context.Background(), []Technology{
		{Name: "nginx", Version: "1.18.0"},
	})
	require.Len(t, matches, 1)
	assert.Equal(t, "CVE-2021-23017", matches[0].VulnerabilityID)
}

func TestInventoryFirstVersionWins(t *testing.T) {
	inv := NewInventory()
	inv.Add(Technology{Name: "jQuery", DetectedVia: "script src"})
	inv.Add(Technology{Name: "jquery", Version: "3.3.1", DetectedVia: "script content"})
	inv.Add(Technology{Name: "JQUERY", Version: "2.0.0", DetectedVia: "html comment"})
	inv.Add(Technology{Name: "jquery", DetectedVia: "header"}) // must not erase

	list := inv.List()
	require.Len(t, list, 1)
	assert.Equal(t, "3.3.1", list[0].Version)
	assert.Equal(t, "script content", list[0].DetectedVia)
}
