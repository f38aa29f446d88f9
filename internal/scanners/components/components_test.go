package components

import (
	"context"
	"net/http"
	"testing"

	"github.com/MOYARU/posture/internal/config"
	"github.com/MOYARU/posture/internal/engine"
	"github.com/MOYARU/posture/internal/report"
	ctxpkg "github.com/MOYARU/posture/internal/scanners/context"
	"github.com/MOYARU/posture/internal/vulndb"
)

func componentContext(header http.Header, body string) *ctxpkg.Context {
	if header == nil {
		header = http.Header{}
	}
	return &ctxpkg.Context{
		RequestContext: context.Background(),
		Page:           &engine.Response{StatusCode: 200, Header: header},
		BodyBytes:      []byte(body),
		Config:         config.Default(),
	}
}

func TestDetectTechnologiesFromHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Server", "nginx/1.18.0")
	h.Set("X-Powered-By", "PHP/7.4.3")

	inv := DetectTechnologies(componentContext(h, ""))
	techs := inv.List()
	if len(techs) != 2 {
		t.Fatalf("expected 2 technologies, got %v", techs)
	}

	byName := make(map[string]vulndb.Technology)
	for _, tech := range techs {
		byName[tech.Name] = tech
	}
	if byName["nginx"].Version != "1.18.0" {
		t.Fatalf("unexpected nginx version: %q", byName["nginx"].Version)
	}
	if byName["php"].Version != "7.4.3" {
		t.Fatalf("unexpected php version: %q", byName["php"].Version)
	}
}

func TestDetectTechnologiesFromBody(t *testing.T) {
	body := `<html><head>
<meta name="generator" content="WordPress 5.8.1">
<script src="/assets/jquery-3.3.1.min.js"></script>
<script src="https://cdn.example.com/lodash@4.17.11/lodash.min.js"></script>
</head><body><!-- served by apache/2.4.41 --></body></html>`

	inv := DetectTechnologies(componentContext(nil, body))
	byName := make(map[string]vulndb.Technology)
	for _, tech := range inv.List() {
		byName[tech.Name] = tech
	}

	if byName["wordpress"].Version != "5.8.1" {
		t.Fatalf("unexpected wordpress version: %q", byName["wordpress"].Version)
	}
	if byName["jquery"].Version != "3.3.1" {
		t.Fatalf("unexpected jquery version: %q", byName["jquery"].Version)
	}
	if byName["lodash"].Version != "4.17.11" {
		t.Fatalf("unexpected lodash version: %q", byName["lodash"].Version)
	}
	if byName["apache"].Version != "2.4.41" {
		t.Fatalf("unexpected apache version: %q", byName["apache"].Version)
	}
}

func TestDetectTechnologiesFromCookies(t *testing.T) {
	h := http.Header{}
	h.Add("Set-Cookie", "PHPSESSID=abc123; Path=/; HttpOnly")
	h.Add("Set-Cookie", "wordpress_logged_in_f00=1; Path=/")
	h.Set("X-Powered-By", "PHP/7.2.0")

	inv := DetectTechnologies(componentContext(h, ""))
	byName := make(map[string]vulndb.Technology)
	for _, tech := range inv.List() {
		byName[tech.Name] = tech
	}

	if _, ok := byName["wordpress"]; !ok {
		t.Fatalf("wordpress cookie not detected: %v", inv.List())
	}
	// The versionless cookie observation must not clobber the versioned
	// header observation.
	if byName["php"].Version != "7.2.0" {
		t.Fatalf("unexpected php version: %q", byName["php"].Version)
	}
}

func TestRunCorrelatesAgainstFallbackTable(t *testing.T) {
	// jquery 3.3.1 is below both fallback thresholds; no live source is
	// configured, so both findings come from the fallback table.
	body := `<script src="/js/jquery-3.3.1.min.js"></script>`
	findings, err := Run(componentContext(nil, body))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var vuln []report.Finding
	for _, f := range findings {
		if f.ID == "VULNERABLE_COMPONENT" || f.ID == "VULNERABLE_COMPONENT_NO_FIX" {
			vuln = append(vuln, f)
		}
	}
	if len(vuln) != 2 {
		t.Fatalf("expected 2 vulnerable-component findings, got %d: %v", len(vuln), vuln)
	}
	for _, f := range vuln {
		if f.Severity != report.SeverityMedium {
			t.Fatalf("unexpected severity %s for %s", f.Severity, f.Title)
		}
	}
}

func TestRunCleanPageReportsInfoOnly(t *testing.T) {
	findings, err := Run(componentContext(nil, "<html><body>hello</body></html>"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected exactly one finding, got %v", findings)
	}
	if findings[0].ID != "NO_VULNERABLE_COMPONENTS" || findings[0].Severity != report.SeverityInfo {
		t.Fatalf("unexpected finding: %+v", findings[0])
	}
}

func TestRunVersionDisclosureFromHeader(t *testing.T) {
	h := http.Header{}
	h.Set("Server", "nginx/1.27.0")

	findings, err := Run(componentContext(h, ""))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	found := false
	for _, f := range findings {
		if f.ID == "COMPONENT_VERSION_DISCLOSED" {
			found = true
			if f.Severity != report.SeverityLow {
				t.Fatalf("unexpected severity: %s", f.Severity)
			}
		}
	}
	if !found {
		t.Fatal("expected a version-disclosure finding for the Server header")
	}
}
