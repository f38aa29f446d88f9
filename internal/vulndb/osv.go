package vulndb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/MOYARU/posture/internal/report"
	"github.com/MOYARU/posture/internal/version"
)

// LiveVuln is one vulnerability returned by the live database.
type LiveVuln struct {
	ID         string
	Aliases    []string
	Summary    string
	Severity   report.Severity
	FixVersion string
}

// DedupKey prefers a CVE-style alias over the database's internal id.
func (v LiveVuln) DedupKey() string {
	for _, a := range v.Aliases {
		if strings.HasPrefix(strings.ToUpper(a), "CVE-") {
			return strings.ToUpper(a)
		}
	}
	return strings.ToUpper(v.ID)
}

// Client queries the OSV.dev vulnerability database. Successive calls are
// serialized through a rate limiter rather than batched: the service
// enforces per-client quotas, and the batch endpoint omits the severity
// data the correlator needs.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

func NewClient(baseURL string, timeout time.Duration, perSec float64) *Client {
	if baseURL == "" {
		baseURL = "https://api.osv.dev"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if perSec <= 0 {
		perSec = 1
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(perSec), 1),
		timeout:    timeout,
	}
}

// Query looks up known vulnerabilities for one package version.
func (c *Client) Query(ctx context.Context, ecosystem, pkg, pkgVersion string) ([]LiveVuln, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"package": map[string]string{
			"name":      pkg,
			"ecosystem": ecosystem,
		},
		"version": pkgVersion,
	})
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/v1/query", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.ScannerUserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vulnerability database returned status %d", resp.StatusCode)
	}

	return parseVulns(body), nil
}

func parseVulns(body []byte) []LiveVuln {
	var out []LiveVuln
	gjson.GetBytes(body, "vulns").ForEach(func(_, v gjson.Result) bool {
		vuln := LiveVuln{
			ID:      v.Get("id").String(),
			Summary: v.Get("summary").String(),
		}
		v.Get("aliases").ForEach(func(_, a gjson.Result) bool {
			vuln.Aliases = append(vuln.Aliases, a.String())
			return true
		})

		vuln.Severity = MapSeverity(
			v.Get("database_specific.severity").String(),
			cvssScore(v),
		)

		// First fixed event of the first affected range, if any.
		v.Get("affected.0.ranges.0.events").ForEach(func(_, ev gjson.Result) bool {
			if fixed := ev.Get("fixed").String(); fixed != "" {
				vuln.FixVersion = fixed
				return false
			}
			return true
		})

		out = append(out, vuln)
		return true
	})
	return out
}

// cvssScore takes the highest base score across the record's severity
// entries. Each severity[].score is a CVSS vector string, never a bare
// number; entries whose vector cannot be scored are skipped.
func cvssScore(v gjson.Result) float64 {
	var score float64
	v.Get("severity").ForEach(func(_, s gjson.Result) bool {
		if base, ok := cvssBaseScore(s.Get("score").String()); ok && base > score {
			score = base
		}
		return true
	})
	return score
}

// MapSeverity folds the live database's severity fields (textual label or
// CVSS base score) onto the internal ladder. Textual labels win when
// present.
func MapSeverity(text string, score float64) report.Severity {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "critical":
		return report.SeverityCritical
	case "high":
		return report.SeverityHigh
	case "moderate", "medium":
		return report.SeverityMedium
	case "low":
		return report.SeverityLow
	}

	switch {
	case score >= 9:
		return report.SeverityCritical
	case score >= 7:
		return report.SeverityHigh
	case score >= 4:
		return report.SeverityMedium
	default:
		return report.SeverityLow
	}
}
