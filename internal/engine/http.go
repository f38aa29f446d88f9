package engine

import (
	"crypto/tls"
	"net/http"
	"time"
)

// maxRedirectHops bounds redirect chains during probing. Misconfigured
// targets redirect in loops; after the cap the last response is used as
// the probe result instead of failing the request.
const maxRedirectHops = 5

// NewHTTPClient builds the outbound probing client. The connection pool
// is sized for a single-origin scan, a handful of keep-alive connections
// to one host, not a crawler fleet.
func NewHTTPClient(followRedirects bool, tlsConfig *tls.Config) *http.Client {
	if tlsConfig == nil {
		tlsConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	client := &http.Client{
		Timeout: 15 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig:       tlsConfig,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          32,
			MaxIdleConnsPerHost:   16,
			MaxConnsPerHost:       16,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if !followRedirects || len(via) >= maxRedirectHops {
			return http.ErrUseLastResponse
		}
		return nil
	}
	return client
}
