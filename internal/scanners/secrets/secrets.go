// Package secrets scans the target page and its same-origin scripts for
// leaked credentials.
package secrets

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/MOYARU/posture/internal/engine"
	"github.com/MOYARU/posture/internal/messages"
	"github.com/MOYARU/posture/internal/report"
	"github.com/MOYARU/posture/internal/scanners"
	ctxpkg "github.com/MOYARU/posture/internal/scanners/context"
	"github.com/MOYARU/posture/internal/signature"
)

const familyID = "SECRET_LEAKS"

func Family() scanners.Family {
	return scanners.Family{
		ID:          familyID,
		Category:    scanners.CategorySecrets,
		Title:       "Client-Side Secret Leaks",
		Description: "Scans the served page and its same-origin scripts for credential patterns.",
		Run:         Run,
	}
}

func Run(ctx *ctxpkg.Context) ([]report.Finding, error) {
	if ctx.Page == nil {
		return nil, nil
	}

	matcher := signature.NewMatcher(ctx.Config.Scan.SecretsEntropyMin)
	patterns := signature.DefaultPatterns()

	matches := matcher.MatchAll(patterns, string(ctx.BodyBytes))

	for _, scriptURL := range sameOriginScripts(ctx, ctx.Config.Scan.MaxScriptFetches) {
		resp, err := engine.Fetch(ctx.RequestContext, ctx.HTTPClient, http.MethodGet, scriptURL, ctx.Config.Scan.ProbeTimeout)
		if err != nil {
			// A script that cannot be fetched is not scanned. Nothing to
			// report; the page itself was already inspected.
			continue
		}
		matches = append(matches, matcher.MatchAll(patterns, string(resp.Body))...)
	}

	findings := make([]report.Finding, 0, len(matches))
	for _, m := range matches {
		findings = append(findings, findingForMatch(m))
	}

	if len(findings) == 0 {
		msg := messages.GetMessage("NO_SECRETS_FOUND")
		findings = append(findings, report.Finding{
			ID:       "NO_SECRETS_FOUND",
			Category: string(scanners.CategorySecrets),
			Severity: report.SeverityInfo,
			Title:    msg.Title,
			Message:  msg.Message,
			Fix:      msg.Fix,
		})
	}

	return findings, nil
}

func findingForMatch(m signature.Match) report.Finding {
	id := "SECRET_EXPOSED"
	if m.Downgraded {
		id = "SECRET_PUBLISHABLE_KEY"
	}
	msg := messages.GetMessage(id)

	message := fmt.Sprintf(msg.Message, m.PatternName)
	if m.Downgraded && m.DowngradeReason != "" {
		message += " (" + m.DowngradeReason + ")"
	}

	confidence := report.ConfidenceHigh
	if m.Downgraded {
		confidence = report.ConfidenceMedium
	}

	return report.Finding{
		ID:                         id,
		Category:                   string(scanners.CategorySecrets),
		Severity:                   m.Severity,
		Confidence:                 confidence,
		Title:                      fmt.Sprintf(msg.Title, m.PatternName),
		Message:                    message,
		Evidence:                   signature.Redact(m.Value),
		Fix:                        msg.Fix,
		IsPotentiallyFalsePositive: msg.IsPotentiallyFalsePositive,
	}
}

// sameOriginScripts extracts script src attributes from the page and
// resolves them against the final URL, keeping only same-host ones.
func sameOriginScripts(ctx *ctxpkg.Context, limit int) []string {
	if limit <= 0 || ctx.FinalURL == nil {
		return nil
	}
	if !strings.Contains(strings.ToLower(ctx.Page.ContentType()), "html") {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(string(ctx.BodyBytes)))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var urls []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(urls) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" {
			if src := attrValue(n, "src"); src != "" {
				if resolved := resolveSameOrigin(ctx.FinalURL, src); resolved != "" {
					if _, dup := seen[resolved]; !dup {
						seen[resolved] = struct{}{}
						urls = append(urls, resolved)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return urls
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func resolveSameOrigin(base *url.URL, src string) string {
	rel, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(rel)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	if !strings.EqualFold(abs.Hostname(), base.Hostname()) {
		return ""
	}
	return abs.String()
}
