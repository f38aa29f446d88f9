package target

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

const maxTargetLength = 2048

// ErrRejected marks input that must never reach the network.
type ErrRejected struct {
	Reason string
}

func (e *ErrRejected) Error() string {
	return "target rejected: " + e.Reason
}

func rejected(format string, args ...any) error {
	return &ErrRejected{Reason: fmt.Sprintf(format, args...)}
}

// Target is a validated absolute scan target. Immutable once parsed.
type Target struct {
	url *url.URL
}

func (t *Target) URL() *url.URL {
	u := *t.url
	return &u
}

func (t *Target) String() string {
	return t.url.String()
}

func (t *Target) Hostname() string {
	return t.url.Hostname()
}

// Origin returns scheme://host[:port] with no path component.
func (t *Target) Origin() string {
	return t.url.Scheme + "://" + t.url.Host
}

// Resolve joins a probe path onto the target's origin.
func (t *Target) Resolve(path string) string {
	rel, err := url.Parse(path)
	if err != nil {
		return t.Origin() + path
	}
	base := *t.url
	base.Path = "/"
	base.RawQuery = ""
	return base.ResolveReference(rel).String()
}

// Parse validates a raw target URL. Every probe in the system is gated on
// this: unparseable input, non-http schemes, embedded credentials and
// private/loopback/link-local/CGNAT hosts are rejected before any network
// traffic happens.
func Parse(raw string) (*Target, error) {
	return parse(raw, false)
}

// ParseAllowInternal performs the same validation but permits private
// and loopback hosts. Reserved for deliberate scans of staging
// environments behind the operator's own network; request-facing code
// must use Parse.
func ParseAllowInternal(raw string) (*Target, error) {
	return parse(raw, true)
}

func parse(raw string, allowInternal bool) (*Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, rejected("empty target")
	}
	if len(raw) > maxTargetLength {
		return nil, rejected("URL longer than %d characters", maxTargetLength)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, rejected("unparseable URL: %v", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, rejected("unsupported scheme %q (only http/https allowed)", parsed.Scheme)
	}
	if parsed.User != nil {
		return nil, rejected("embedded credentials are not allowed")
	}

	host := parsed.Hostname()
	if host == "" {
		return nil, rejected("missing host")
	}
	if !allowInternal && isInternalHost(host) {
		return nil, rejected("host %q resolves to an internal or reserved range", host)
	}

	return &Target{url: parsed}, nil
}

func isInternalHost(host string) bool {
	h := strings.ToLower(strings.Trim(host, "."))
	if h == "localhost" || strings.HasSuffix(h, ".localhost") {
		return true
	}
	if h == "metadata.google.internal" || strings.HasSuffix(h, ".internal") {
		return true
	}

	ip := net.ParseIP(h)
	if ip == nil {
		return false
	}
	return isInternalIP(ip)
}

func isInternalIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return true
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	// CGNAT 100.64.0.0/10 is not covered by net.IP helpers.
	if v4 := ip.To4(); v4 != nil {
		if v4[0] == 100 && v4[1] >= 64 && v4[1] <= 127 {
			return true
		}
	}
	// fc00::/7 unique-local.
	if len(ip) == net.IPv6len && (ip[0]&0xfe) == 0xfc {
		return true
	}
	return false
}
