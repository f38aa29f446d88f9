package engine

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/MOYARU/posture/internal/version"
)

const maxBodyBytes = 4 << 20 // 4 MiB safety cap

// Response is a fully-read HTTP response. The body is read (and bounded)
// before the caller sees it so probes never hold connections open.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	FinalURL   *url.URL
}

func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// RequestError classifies a failed fetch. Timeouts and connection failures
// are handled differently by callers: a timeout degrades a check to
// "skipped", while a refused connection can itself be a finding.
type RequestError struct {
	URL     string
	Timeout bool
	Err     error
}

func (e *RequestError) Error() string {
	kind := "request failed"
	if e.Timeout {
		kind = "request timed out"
	}
	return kind + " for " + e.URL + ": " + e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err represents a deadline rather than a
// network-level failure.
func IsTimeout(err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Timeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Fetch performs one bounded request. The per-call timeout is layered on
// top of ctx so a slow probe cannot outlive its budget, and the body is
// drained up to maxBodyBytes.
func Fetch(ctx context.Context, client *http.Client, method, rawURL string, timeout time.Duration) (*Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, &RequestError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", version.ScannerUserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return nil, &RequestError{URL: rawURL, Timeout: IsTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := decodeBody(resp)
	if err != nil {
		return nil, &RequestError{URL: rawURL, Timeout: IsTimeout(err), Err: err}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		FinalURL:   resp.Request.URL,
	}, nil
}

func readBounded(r io.Reader) ([]byte, error) {
	limited := io.LimitReader(r, maxBodyBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if len(body) > maxBodyBytes {
		body = body[:maxBodyBytes]
	}
	return body, nil
}
