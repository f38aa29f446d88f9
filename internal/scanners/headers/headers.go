// Package headers evaluates the response's security header posture.
package headers

import (
	"net/http"
	"strings"

	"github.com/MOYARU/posture/internal/messages"
	"github.com/MOYARU/posture/internal/report"
	"github.com/MOYARU/posture/internal/scanners"
	ctxpkg "github.com/MOYARU/posture/internal/scanners/context"
)

const familyID = "SECURITY_HEADERS"

func Family() scanners.Family {
	return scanners.Family{
		ID:          familyID,
		Category:    scanners.CategorySecurityHeaders,
		Title:       "Security Headers",
		Description: "Checks transport security and browser hardening headers on the served page.",
		Run:         Run,
	}
}

func Run(ctx *ctxpkg.Context) ([]report.Finding, error) {
	if ctx.Page == nil {
		return nil, nil
	}
	h := ctx.Page.Header

	var findings []report.Finding

	if ctx.FinalURL != nil && ctx.FinalURL.Scheme == "https" {
		if h.Get("Strict-Transport-Security") == "" {
			findings = append(findings, headerFinding("HSTS_MISSING", report.SeverityHigh))
		}
	}

	csp := h.Get("Content-Security-Policy")
	if csp == "" {
		findings = append(findings, headerFinding("CSP_MISSING", report.SeverityMedium))
	}

	if !strings.EqualFold(strings.TrimSpace(h.Get("X-Content-Type-Options")), "nosniff") {
		findings = append(findings, headerFinding("X_CONTENT_TYPE_OPTIONS_MISSING", report.SeverityLow))
	}

	if !clickjackingProtected(h, csp) {
		findings = append(findings, headerFinding("CLICKJACKING_PROTECTION_MISSING", report.SeverityLow))
	}

	if h.Get("Referrer-Policy") == "" {
		findings = append(findings, headerFinding("REFERRER_POLICY_MISSING", report.SeverityLow))
	}

	return findings, nil
}

func clickjackingProtected(h http.Header, csp string) bool {
	if h.Get("X-Frame-Options") != "" {
		return true
	}
	return strings.Contains(strings.ToLower(csp), "frame-ancestors")
}

func headerFinding(id string, severity report.Severity) report.Finding {
	msg := messages.GetMessage(id)
	return report.Finding{
		ID:       id,
		Category: string(scanners.CategorySecurityHeaders),
		Severity: severity,
		Title:    msg.Title,
		Message:  msg.Message,
		Fix:      msg.Fix,
	}
}
