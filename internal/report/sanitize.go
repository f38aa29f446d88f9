package report

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	reBearer    = regexp.MustCompile(`(?i)\b(bearer\s+)([a-z0-9\-\._~\+\/]+=*)`)
	reApiKeyKV  = regexp.MustCompile(`(?i)([a-z0-9_-]*(?:api[_-]?key|token|secret|passw(?:or)?d|authorization)[a-z0-9_-]*)\s*[:=]\s*([^\s,;]+)`)
	reLongToken = regexp.MustCompile(`\b[a-zA-Z0-9_\-]{32,}\b`)
)

// SanitizeFinding runs every textual field of a finding through the
// redaction pass. Callers apply it once, just before a finding is emitted.
func SanitizeFinding(f Finding) Finding {
	f.Message = SanitizeText(f.Message)
	f.Evidence = SanitizeText(f.Evidence)
	f.Fix = SanitizeText(f.Fix)
	return f
}

func SanitizeText(s string) string {
	out := s
	out = reBearer.ReplaceAllString(out, "${1}<redacted>")
	out = reApiKeyKV.ReplaceAllString(out, "${1}=<redacted>")
	out = reLongToken.ReplaceAllStringFunc(out, func(tok string) string {
		if tok == "<redacted>" {
			return tok
		}
		return tok[:4] + "...<redacted>"
	})
	return out
}

func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return SanitizeText(raw)
	}

	q := u.Query()
	for k := range q {
		kl := strings.ToLower(k)
		if strings.Contains(kl, "token") ||
			strings.Contains(kl, "key") ||
			strings.Contains(kl, "secret") ||
			strings.Contains(kl, "auth") ||
			strings.Contains(kl, "session") ||
			strings.Contains(kl, "pass") {
			q.Set(k, "<redacted>")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
