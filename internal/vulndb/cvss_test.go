package vulndb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MOYARU/posture/internal/report"
)

func TestCVSSBaseScore(t *testing.T) {
	cases := []struct {
		vector string
		want   float64
	}{
		{"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", 9.8},
		{"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H", 10.0},
		{"CVSS:3.1/AV:N/AC:L/PR:N/UI:R/S:C/C:L/I:L/A:N", 6.1},
		{"CVSS:3.1/AV:L/AC:L/PR:L/UI:N/S:U/C:H/I:N/A:N", 5.5},
		{"CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", 9.8},
		// No impact at all scores zero regardless of exploitability.
		{"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:N/I:N/A:N", 0},
		{"CVSS:2.0/AV:N/AC:L/Au:N/C:P/I:P/A:P", 7.5},
		// v2 vectors also appear without the version prefix.
		{"AV:N/AC:L/Au:N/C:P/I:P/A:P", 7.5},
		{"AV:N/AC:M/Au:N/C:N/I:P/A:N", 4.3},
	}
	for _, tc := range cases {
		got, ok := cvssBaseScore(tc.vector)
		assert.True(t, ok, tc.vector)
		assert.InDelta(t, tc.want, got, 0.001, tc.vector)
	}
}

func TestCVSSBaseScoreRejectsUnscorable(t *testing.T) {
	for _, vector := range []string{
		"",
		"6.9",
		"CVSS:3.1/AV:N/AC:L",
		"CVSS:3.1/AV:X/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
		"CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
	} {
		_, ok := cvssBaseScore(vector)
		assert.False(t, ok, vector)
	}
}

func TestParseVulnsScoresVectorOnlyRecords(t *testing.T) {
	body := `{"vulns": [{
		"id": "GHSA-vector-only",
		"summary": "Unsafe deserialization",
		"severity": [{"type": "CVSS_V3", "score": "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H"}]
	}]}`

	vulns := parseVulns([]byte(body))
	assert.Len(t, vulns, 1)
	assert.Equal(t, report.SeverityCritical, vulns[0].Severity,
		"a CVSS 10.0 vector with no textual label must not degrade to low")
}
