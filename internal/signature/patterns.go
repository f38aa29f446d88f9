package signature

import (
	"regexp"

	"github.com/MOYARU/posture/internal/report"
)

// DefaultPatterns is the built-in secret table. Vendor-prefixed shapes are
// trusted as-is; generic shapes carry RequiresContext and must pass the
// entropy filter.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Name: "AWS Access Key ID", Regex: regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`), Severity: report.SeverityCritical},
		{Name: "GitHub Token", Regex: regexp.MustCompile(`\bghp_[a-zA-Z0-9]{36}\b`), Severity: report.SeverityCritical},
		{Name: "GitHub Fine-Grained Token", Regex: regexp.MustCompile(`\bgithub_pat_[a-zA-Z0-9_]{60,}\b`), Severity: report.SeverityCritical},
		{Name: "Stripe Secret Key", Regex: regexp.MustCompile(`\bsk_live_[0-9a-zA-Z]{16,}\b`), Severity: report.SeverityCritical},
		{Name: "Stripe Key", Regex: regexp.MustCompile(`\bpk_(live|test)_[0-9a-zA-Z]{16,}\b`), Severity: report.SeverityCritical},
		{Name: "Slack Token", Regex: regexp.MustCompile(`\bxox[baprs]-[0-9]{10,13}-[0-9]{10,13}-[a-zA-Z0-9]{24}\b`), Severity: report.SeverityCritical},
		{Name: "Private Key Block", Regex: regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH |PGP )?PRIVATE KEY-----`), Severity: report.SeverityCritical},
		{Name: "Google API Key", Regex: regexp.MustCompile(`\bAIza[0-9A-Za-z\-_]{35}\b`), Severity: report.SeverityHigh},
		{Name: "JWT", Regex: regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{8,}\.[A-Za-z0-9_-]{8,}\.[A-Za-z0-9_-]{8,}\b`), Severity: report.SeverityHigh, RequiresContext: true},
		{Name: "CAPTCHA Site Key", Regex: regexp.MustCompile(`\b6L[0-9A-Za-z_-]{38}\b`), Severity: report.SeverityMedium, RequiresContext: true},
		{Name: "Analytics Measurement ID", Regex: regexp.MustCompile(`\bG-[A-Z0-9]{6,14}\b`), Severity: report.SeverityLow},
		{Name: "Generic Assigned Secret", Regex: regexp.MustCompile(`(?i)\b(?:api[_-]?key|access[_-]?key|client[_-]?secret|secret[_-]?key|auth[_-]?token)\s*[:=]\s*['"]([A-Za-z0-9_\-]{24,})['"]`), Severity: report.SeverityHigh, ValueGroup: 1, RequiresContext: true},
		{Name: "Bare High-Entropy Token", Regex: regexp.MustCompile(`\b[A-Za-z0-9+/]{40}\b`), Severity: report.SeverityMedium, RequiresContext: true},
	}
}
