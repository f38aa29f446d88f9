// Package messages holds the user-facing text for every finding ID.
// Keeping the copy here, out of the scanner code, lets the remediation
// text evolve without touching detection logic.
package messages

import (
	"fmt"
)

type MessageDetail struct {
	Title                      string
	Message                    string
	Fix                        string
	IsPotentiallyFalsePositive bool
}

var findingMessages = map[string]MessageDetail{
	"SECRET_EXPOSED": { // %s is the pattern name, not part of the ID
		Title:   "Exposed Secret: %s",
		Message: "A string matching the %s pattern was found in a publicly served page or script. Anyone who loads this resource can read it.",
		Fix:     "Revoke the exposed credential immediately, then move it to server-side configuration or a secrets manager. Client-delivered code must only ever contain keys that are designed to be public.",
	},
	"SECRET_PUBLISHABLE_KEY": { // %s is the pattern name
		Title:                      "Publishable Key Present: %s",
		Message:                    "A string matching the %s pattern was found, but its shape matches a key type that the vendor designates as safe to publish. Reported for transparency only.",
		Fix:                        "Verify that this key really is the publishable variant and not a secret key pasted into client code by mistake.",
		IsPotentiallyFalsePositive: true,
	},
	"NO_SECRETS_FOUND": {
		Title:   "No Secret Leaks Detected",
		Message: "No credential or API-key patterns were detected in the page or its same-origin scripts.",
		Fix:     "No action required. Absence of a finding is not proof of safety; secrets can live in paths this scan did not fetch.",
	},
	"EXPOSED_ENV_FILE": {
		Title:   "Environment File Publicly Accessible",
		Message: "The server returned what appears to be a dotenv configuration file. These files commonly contain database credentials, API keys, and application secrets.",
		Fix:     "Block access to dotfiles at the web-server level and move the file outside the document root. Rotate every credential it contains.",
	},
	"EXPOSED_GIT_REPOSITORY": {
		Title:   "Git Repository Metadata Exposed",
		Message: "The .git directory is readable over HTTP. Attackers can reconstruct the full source history, including any secrets ever committed.",
		Fix:     "Deny access to the .git directory in the web-server configuration, or deploy build artifacts instead of a working checkout.",
	},
	"EXPOSED_CONFIG_FILE": {
		Title:   "Configuration File Publicly Accessible",
		Message: "A server or application configuration file is being served to anonymous visitors.",
		Fix:     "Restrict the file at the web-server level and audit it for embedded credentials.",
	},
	"EXPOSED_BACKUP_FILE": {
		Title:                      "Backup or Dump File Publicly Accessible",
		Message:                    "A file that looks like a backup or database dump is downloadable. Such files frequently contain complete credential sets.",
		Fix:                        "Remove backup artifacts from the document root and store them in access-controlled storage.",
		IsPotentiallyFalsePositive: true,
	},
	"EXPOSED_SERVER_STATUS": {
		Title:                      "Server Status Endpoint Exposed",
		Message:                    "A server status or metrics endpoint is reachable without authentication, disclosing internal request and host details.",
		Fix:                        "Bind status endpoints to localhost or protect them with authentication at the proxy layer.",
		IsPotentiallyFalsePositive: true,
	},
	"GRAPHQL_INTROSPECTION_ENABLED": {
		Title:                      "GraphQL Introspection Enabled",
		Message:                    "The GraphQL endpoint answers introspection queries, revealing the full API schema to anonymous callers.",
		Fix:                        "Disable introspection in production, or restrict it to authenticated internal callers.",
		IsPotentiallyFalsePositive: true,
	},
	"NO_EXPOSED_PATHS_FOUND": {
		Title:   "No Exposed Sensitive Paths Detected",
		Message: "None of the probed well-known sensitive paths returned verifiable content.",
		Fix:     "No action required.",
	},
	"VULNERABLE_COMPONENT": { // args: tech name, version, vulnerability ID
		Title:   "Vulnerable Component: %s %s (%s)",
		Message: "The detected %s version %s is affected by %s. %s",
		Fix:     "Upgrade %s to version %s or later.",
	},
	"VULNERABLE_COMPONENT_NO_FIX": {
		Title:   "Vulnerable Component: %s %s (%s)",
		Message: "The detected %s version %s is affected by %s. %s",
		Fix:     "Upgrade %s to the latest stable release and review the advisory for mitigations.",
	},
	"COMPONENT_VERSION_DISCLOSED": {
		Title:                      "Component Version Disclosed: %s",
		Message:                    "The server announces %s version %s in response metadata. Version disclosure helps attackers select known exploits.",
		Fix:                        "Suppress version tokens in server configuration (e.g. server_tokens off, ServerTokens Prod, expose_php = Off).",
		IsPotentiallyFalsePositive: true,
	},
	"NO_VULNERABLE_COMPONENTS": {
		Title:   "No Known-Vulnerable Components Detected",
		Message: "No detected technology version fell below a known-vulnerable threshold.",
		Fix:     "No action required. Keep dependencies on a regular update cadence.",
	},
	"HSTS_MISSING": {
		Title:   "Strict-Transport-Security Header Missing",
		Message: "The HTTPS response does not set Strict-Transport-Security, so browsers will still attempt plain-HTTP connections on future visits.",
		Fix:     "Add 'Strict-Transport-Security: max-age=31536000; includeSubDomains' to all HTTPS responses.",
	},
	"CSP_MISSING": {
		Title:   "Content-Security-Policy Header Missing",
		Message: "No Content-Security-Policy is set, leaving the site with no script-injection containment if an XSS flaw exists.",
		Fix:     "Define a Content-Security-Policy that restricts script sources to trusted origins. Start with a report-only policy to find breakage before enforcing.",
	},
	"X_CONTENT_TYPE_OPTIONS_MISSING": {
		Title:   "X-Content-Type-Options Header Missing",
		Message: "Without 'X-Content-Type-Options: nosniff', browsers may MIME-sniff responses into executable types.",
		Fix:     "Add 'X-Content-Type-Options: nosniff' to all responses.",
	},
	"CLICKJACKING_PROTECTION_MISSING": {
		Title:   "Clickjacking Protection Missing",
		Message: "Neither X-Frame-Options nor a frame-ancestors CSP directive is set, so the page can be embedded in a hostile frame.",
		Fix:     "Add 'X-Frame-Options: DENY' or a 'frame-ancestors' directive to the Content-Security-Policy.",
	},
	"REFERRER_POLICY_MISSING": {
		Title:   "Referrer-Policy Header Missing",
		Message: "Without a Referrer-Policy, full page URLs may leak to third-party sites through the Referer header.",
		Fix:     "Add 'Referrer-Policy: strict-origin-when-cross-origin' or stricter.",
	},
	"CHECK_SKIPPED": { // %s is the scanner name, %s the reason
		Title:                      "Check Skipped: %s",
		Message:                    "The %s check could not complete: %s. Its results are unavailable for this scan.",
		Fix:                        "Re-run the scan. If the condition persists, the target may be rate limiting or blocking scanner traffic.",
		IsPotentiallyFalsePositive: true,
	},
}

// GetMessage looks up the catalog entry for a finding ID. Unknown IDs
// return a visible placeholder rather than panicking; a missing entry is
// a catalog bug, not a scan failure.
func GetMessage(id string) MessageDetail {
	if msg, ok := findingMessages[id]; ok {
		if msg.Title == "" {
			msg.Title = id
		}
		return msg
	}
	return MessageDetail{
		Title:                      "Message Not Found",
		Message:                    fmt.Sprintf("Message details for ID '%s' not found.", id),
		Fix:                        "Please check the message ID.",
		IsPotentiallyFalsePositive: true,
	}
}
