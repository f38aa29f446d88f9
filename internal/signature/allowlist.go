package signature

import (
	"regexp"
	"strings"
)

// Publishable-key shapes that are designed to ship in client-side code.
// A hit on one of these is still reported, but as informational.
var (
	stripePublishable  = regexp.MustCompile(`^pk_(live|test)_[0-9a-zA-Z]{16,}$`)
	gaMeasurementID    = regexp.MustCompile(`^G-[A-Z0-9]{6,14}$`)
	uaTrackingID       = regexp.MustCompile(`^UA-\d{4,10}-\d{1,4}$`)
	recaptchaSiteKey   = regexp.MustCompile(`^6L[0-9A-Za-z_-]{38}$`)
	captchaContextHint = regexp.MustCompile(`(?i)(captcha|sitekey|site[_-]key|grecaptcha|hcaptcha)`)
	mapsBrowserKeyHint = regexp.MustCompile(`(?i)(maps\.googleapis\.com|google.?maps)`)
)

// allowlisted reports whether value is a known-safe publishable key shape.
// The CAPTCHA site-key shape is ambiguous (it is plain base64-ish), so it
// only counts when the surrounding context mentions a captcha.
func allowlisted(value, context string) (string, bool) {
	switch {
	case stripePublishable.MatchString(value):
		return "publishable payment key (intended for client-side use)", true
	case gaMeasurementID.MatchString(value), uaTrackingID.MatchString(value):
		return "analytics measurement id (public by design)", true
	case recaptchaSiteKey.MatchString(value) && captchaContextHint.MatchString(context):
		return "CAPTCHA site key (public by design)", true
	case strings.HasPrefix(value, "AIza") && mapsBrowserKeyHint.MatchString(context):
		return "browser API key restricted by referrer (verify restrictions)", true
	}
	return "", false
}
