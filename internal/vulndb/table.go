package vulndb

import (
	"strings"

	"github.com/MOYARU/posture/internal/report"
)

// TableEntry is one hardcoded known-vulnerable range. The table backs up
// the live database for technologies its ecosystem mapping cannot place
// (web servers, CMS cores) and when the live source is unreachable.
type TableEntry struct {
	Tech         string
	ID           string
	Alias        string // CVE-style alias, preferred for dedup
	BelowVersion string
	FixVersion   string
	Severity     report.Severity
	Summary      string
}

// FallbackTable lists well-known vulnerable ranges for components commonly
// fingerprinted from headers and markup. Detected version strictly below
// BelowVersion means affected.
var FallbackTable = []TableEntry{
	{Tech: "jquery", ID: "jquery-xss-htmlprefilter", Alias: "CVE-2020-11022", BelowVersion: "3.5.0", FixVersion: "3.5.0", Severity: report.SeverityMedium,
		Summary: "jQuery before 3.5.0 allows XSS when passing HTML from untrusted sources to DOM manipulation methods."},
	{Tech: "jquery", ID: "jquery-extend-proto-pollution", Alias: "CVE-2019-11358", BelowVersion: "3.4.0", FixVersion: "3.4.0", Severity: report.SeverityMedium,
		Summary: "jQuery before 3.4.0 mishandles jQuery.extend(true, ...), enabling Object.prototype pollution."},
	{Tech: "angularjs", ID: "angularjs-eol", Alias: "", BelowVersion: "1.8.3", FixVersion: "", Severity: report.SeverityMedium,
		Summary: "AngularJS reached end of life; versions before 1.8.3 carry unpatched sandbox escape and XSS issues."},
	{Tech: "lodash", ID: "lodash-proto-pollution", Alias: "CVE-2019-10744", BelowVersion: "4.17.12", FixVersion: "4.17.12", Severity: report.SeverityHigh,
		Summary: "lodash before 4.17.12 is vulnerable to prototype pollution via defaultsDeep."},
	{Tech: "nginx", ID: "nginx-resolver-offbyone", Alias: "CVE-2021-23017", BelowVersion: "1.21.0", FixVersion: "1.21.0", Severity: report.SeverityHigh,
		Summary: "nginx resolver before 1.21.0 has an off-by-one heap write exploitable via crafted DNS responses."},
	{Tech: "apache", ID: "apache-path-traversal", Alias: "CVE-2021-42013", BelowVersion: "2.4.52", FixVersion: "2.4.52", Severity: report.SeverityCritical,
		Summary: "Apache HTTP Server before 2.4.52 is affected by path traversal and RCE in mod_cgi configurations."},
	{Tech: "php", ID: "php-eol-8", Alias: "", BelowVersion: "8.1.0", FixVersion: "", Severity: report.SeverityHigh,
		Summary: "PHP before 8.1 no longer receives security fixes; multiple known RCE-capable bugs remain unpatched."},
	{Tech: "wordpress", ID: "wordpress-outdated-core", Alias: "", BelowVersion: "6.0.0", FixVersion: "", Severity: report.SeverityMedium,
		Summary: "WordPress core before 6.0 contains multiple fixed XSS and object-injection vulnerabilities."},
	{Tech: "bootstrap", ID: "bootstrap-tooltip-xss", Alias: "CVE-2019-8331", BelowVersion: "3.4.1", FixVersion: "3.4.1", Severity: report.SeverityMedium,
		Summary: "Bootstrap before 3.4.1 allows XSS in the tooltip/popover data-template attribute."},
	{Tech: "moment", ID: "moment-redos-locale", Alias: "CVE-2022-31129", BelowVersion: "2.29.4", FixVersion: "2.29.4", Severity: report.SeverityHigh,
		Summary: "moment before 2.29.4 has inefficient parsing enabling ReDoS on user-provided date strings."},
}

// DedupKey returns the identifier used to deduplicate against live
// results: the CVE-style alias when present, else the internal id.
func (e TableEntry) DedupKey() string {
	if e.Alias != "" {
		return strings.ToUpper(e.Alias)
	}
	return strings.ToUpper(e.ID)
}

// EcosystemPackage maps a fingerprinted technology name to the package
// coordinates the live database understands. Technologies without a
// mapping (server software, CMS cores) are covered by the fallback table
// only.
func EcosystemPackage(tech string) (ecosystem, pkg string, ok bool) {
	switch strings.ToLower(tech) {
	case "jquery":
		return "npm", "jquery", true
	case "lodash":
		return "npm", "lodash", true
	case "moment":
		return "npm", "moment", true
	case "bootstrap":
		return "npm", "bootstrap", true
	case "angularjs":
		return "npm", "angular", true
	case "react":
		return "npm", "react", true
	case "vue":
		return "npm", "vue", true
	default:
		return "", "", false
	}
}
