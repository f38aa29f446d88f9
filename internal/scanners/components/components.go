// Package components detects technologies from response metadata and
// page content, then correlates detected versions against known
// vulnerabilities.
package components

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MOYARU/posture/internal/messages"
	"github.com/MOYARU/posture/internal/report"
	"github.com/MOYARU/posture/internal/scanners"
	ctxpkg "github.com/MOYARU/posture/internal/scanners/context"
	"github.com/MOYARU/posture/internal/vulndb"
)

const familyID = "VULNERABLE_COMPONENTS"

var (
	commentRegex = regexp.MustCompile(`<!--[^>]{0,200}?-->`)
	metaRegex    = regexp.MustCompile(`(?i)<meta\s+name=["']generator["']\s+content=["']([^"']+)["']`)
	scriptRegex  = regexp.MustCompile(`(?i)<script[^>]+src=["']([^"']+)["']`)
)

// techSignatures map raw text (a header value, script URL, generator
// string or comment) to a named technology plus optional version.
var techSignatures = []struct {
	Name     string
	Category string
	Pattern  *regexp.Regexp
}{
	{Name: "apache", Category: "server", Pattern: regexp.MustCompile(`(?i)apache(?:/|\s+)(\d+\.\d+(?:\.\d+)?)`)},
	{Name: "nginx", Category: "server", Pattern: regexp.MustCompile(`(?i)nginx(?:/|\s+)(\d+\.\d+(?:\.\d+)?)`)},
	{Name: "php", Category: "runtime", Pattern: regexp.MustCompile(`(?i)\bphp(?:/|\s+)(\d+\.\d+(?:\.\d+)?)`)},
	{Name: "wordpress", Category: "cms", Pattern: regexp.MustCompile(`(?i)wordpress(?:\s+|/)?(\d+\.\d+(?:\.\d+)?)`)},
	{Name: "jquery", Category: "js-library", Pattern: regexp.MustCompile(`(?i)jquery(?:[-._]|%2d)?(\d+\.\d+(?:\.\d+)?)`)},
	{Name: "bootstrap", Category: "js-library", Pattern: regexp.MustCompile(`(?i)bootstrap(?:[-.@/])(\d+\.\d+(?:\.\d+)?)`)},
	{Name: "lodash", Category: "js-library", Pattern: regexp.MustCompile(`(?i)lodash(?:[-.@/])(\d+\.\d+(?:\.\d+)?)`)},
	{Name: "moment", Category: "js-library", Pattern: regexp.MustCompile(`(?i)moment(?:[-.@/])(\d+\.\d+(?:\.\d+)?)`)},
	{Name: "angularjs", Category: "js-library", Pattern: regexp.MustCompile(`(?i)angular(?:js)?(?:[-.@/])(1\.\d+(?:\.\d+)?)`)},
	{Name: "vue", Category: "js-library", Pattern: regexp.MustCompile(`(?i)vue(?:[-.@/])(\d+\.\d+(?:\.\d+)?)`)},
	{Name: "react", Category: "js-library", Pattern: regexp.MustCompile(`(?i)react(?:[-.@/])(\d+\.\d+(?:\.\d+)?)`)},
}

func Family() scanners.Family {
	return scanners.Family{
		ID:          familyID,
		Category:    scanners.CategoryComponents,
		Title:       "Vulnerable Components",
		Description: "Detects technology versions from headers and page content and correlates them with known vulnerabilities.",
		Run:         Run,
	}
}

func Run(ctx *ctxpkg.Context) ([]report.Finding, error) {
	if ctx.Page == nil {
		return nil, nil
	}

	inv := DetectTechnologies(ctx)

	maxPerTech := ctx.Config.VulnDB.MaxPerTech
	correlator := vulndb.NewCorrelator(ctx.VulnDB, maxPerTech)
	matches := correlator.Correlate(ctx.RequestContext, inv.List())

	var findings []report.Finding
	for _, m := range matches {
		findings = append(findings, findingForMatch(m))
	}

	findings = append(findings, versionDisclosureFindings(inv)...)

	if len(matches) == 0 {
		msg := messages.GetMessage("NO_VULNERABLE_COMPONENTS")
		findings = append(findings, report.Finding{
			ID:       "NO_VULNERABLE_COMPONENTS",
			Category: string(scanners.CategoryComponents),
			Severity: report.SeverityInfo,
			Title:    msg.Title,
			Message:  msg.Message,
			Fix:      msg.Fix,
		})
	}

	return findings, nil
}

// DetectTechnologies builds the technology inventory from every
// detection surface: response headers, script srcs, the generator meta
// tag and HTML comments.
func DetectTechnologies(ctx *ctxpkg.Context) *vulndb.Inventory {
	inv := vulndb.NewInventory()

	for _, header := range []string{"Server", "X-Powered-By"} {
		value := ctx.Page.Header.Get(header)
		if value == "" {
			continue
		}
		detectInText(inv, value, header+" header")
	}

	for _, cookie := range ctx.Page.Header.Values("Set-Cookie") {
		detectCookie(inv, cookie)
	}

	body := string(ctx.BodyBytes)

	for _, match := range scriptRegex.FindAllStringSubmatch(body, -1) {
		detectInText(inv, match[1], "script src")
	}
	for _, match := range metaRegex.FindAllStringSubmatch(body, -1) {
		detectInText(inv, match[1], "meta generator")
	}
	for _, match := range commentRegex.FindAllString(body, -1) {
		detectInText(inv, match, "html comment")
	}

	return inv
}

// cookieSignatures identify a technology by its session cookie name.
// Cookies never carry a version; the inventory merge fills one in when
// another detector finds it.
var cookieSignatures = map[string]vulndb.Technology{
	"PHPSESSID":           {Name: "php", Category: "runtime"},
	"wordpress_logged_in": {Name: "wordpress", Category: "cms"},
	"wp-settings":         {Name: "wordpress", Category: "cms"},
	"JSESSIONID":          {Name: "java", Category: "runtime"},
	"ASP.NET_SessionId":   {Name: "aspnet", Category: "runtime"},
}

func detectCookie(inv *vulndb.Inventory, setCookie string) {
	name, _, ok := strings.Cut(setCookie, "=")
	if !ok {
		return
	}
	name = strings.TrimSpace(name)
	for prefix, tech := range cookieSignatures {
		if strings.HasPrefix(name, prefix) {
			tech.DetectedVia = "session cookie"
			inv.Add(tech)
		}
	}
}

func detectInText(inv *vulndb.Inventory, text, via string) {
	for _, sig := range techSignatures {
		m := sig.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		version := ""
		if len(m) > 1 {
			version = m[1]
		}
		inv.Add(vulndb.Technology{
			Name:        sig.Name,
			Version:     version,
			Category:    sig.Category,
			DetectedVia: via,
		})
	}
}

func findingForMatch(m vulndb.VulnerabilityMatch) report.Finding {
	id := "VULNERABLE_COMPONENT"
	if m.FixVersion == "" {
		id = "VULNERABLE_COMPONENT_NO_FIX"
	}
	msg := messages.GetMessage(id)

	var fix string
	if m.FixVersion != "" {
		fix = fmt.Sprintf(msg.Fix, m.TechName, m.FixVersion)
	} else {
		fix = fmt.Sprintf(msg.Fix, m.TechName)
	}

	confidence := report.ConfidenceMedium
	if m.Source == "live" {
		confidence = report.ConfidenceHigh
	}

	return report.Finding{
		ID:         id,
		Category:   string(scanners.CategoryComponents),
		Severity:   m.Severity,
		Confidence: confidence,
		Title:      fmt.Sprintf(msg.Title, m.TechName, m.MatchedVersion, m.VulnerabilityID),
		Message:    fmt.Sprintf(msg.Message, m.TechName, m.MatchedVersion, m.VulnerabilityID, m.Summary),
		Fix:        fix,
	}
}

// versionDisclosureFindings flags server-side components that announce a
// version in response metadata, independent of whether that version is
// known-vulnerable.
func versionDisclosureFindings(inv *vulndb.Inventory) []report.Finding {
	var findings []report.Finding
	for _, tech := range inv.List() {
		if tech.Version == "" {
			continue
		}
		if tech.Category != "server" && tech.Category != "runtime" {
			continue
		}
		if !strings.Contains(tech.DetectedVia, "header") {
			continue
		}
		msg := messages.GetMessage("COMPONENT_VERSION_DISCLOSED")
		findings = append(findings, report.Finding{
			ID:                         "COMPONENT_VERSION_DISCLOSED",
			Category:                   string(scanners.CategoryComponents),
			Severity:                   report.SeverityLow,
			Title:                      fmt.Sprintf(msg.Title, tech.Name),
			Message:                    fmt.Sprintf(msg.Message, tech.Name, tech.Version),
			Fix:                        msg.Fix,
			IsPotentiallyFalsePositive: msg.IsPotentiallyFalsePositive,
		})
	}
	return findings
}
