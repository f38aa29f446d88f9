package engine

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchReadsBodyAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "Posture/") {
			t.Errorf("unexpected User-Agent %q", ua)
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	resp, err := Fetch(context.Background(), srv.Client(), http.MethodGet, srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resp.StatusCode != http.StatusTeapot {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if string(resp.Body) != "hello" {
		t.Fatalf("body = %q", resp.Body)
	}
	if resp.ContentType() != "text/plain" {
		t.Fatalf("content type = %q", resp.ContentType())
	}
}

func TestFetchDecodesGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Content-Type", "text/html")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("<html>compressed</html>"))
		gz.Close()
	}))
	defer srv.Close()

	// Disable the stdlib's transparent decompression so our own path runs.
	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
	resp, err := Fetch(context.Background(), client, http.MethodGet, srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(string(resp.Body), "compressed") {
		t.Fatalf("gzip body not decoded: %q", resp.Body)
	}
}

func TestFetchClassifiesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), http.MethodGet, srv.URL, 30*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !IsTimeout(err) {
		t.Fatalf("timeout not classified as timeout: %v", err)
	}
}

func TestFetchClassifiesConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := Fetch(context.Background(), &http.Client{}, http.MethodGet, addr, 2*time.Second)
	if err == nil {
		t.Fatal("expected network error")
	}
	if IsTimeout(err) {
		t.Fatalf("connection refused misclassified as timeout: %v", err)
	}
}

func TestHTTPClientCapsRedirectChains(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(true, nil)
	resp, err := Fetch(context.Background(), client, http.MethodGet, srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("redirect loop must yield the last response, got error: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusFound)
	}
}

func TestMetricsTransportCountsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	deadAddr := srv.URL

	mt := &MetricsTransport{}
	client := &http.Client{Transport: mt}

	if _, err := Fetch(context.Background(), client, http.MethodGet, srv.URL, time.Second); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	srv.Close()
	if _, err := Fetch(context.Background(), client, http.MethodGet, deadAddr, time.Second); err == nil {
		t.Fatal("request to closed server must fail")
	}

	stats := mt.Snapshot()
	if stats.Requests != 2 {
		t.Fatalf("requests = %d, want 2", stats.Requests)
	}
	if stats.Failures != 1 {
		t.Fatalf("failures = %d, want 1", stats.Failures)
	}
	if stats.Duration <= 0 {
		t.Fatalf("duration = %v", stats.Duration)
	}
}

func TestBudgetTransportStopsAtCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := &http.Client{Transport: &BudgetTransport{Max: 2}}
	for i := 0; i < 2; i++ {
		if _, err := Fetch(context.Background(), client, http.MethodGet, srv.URL, time.Second); err != nil {
			t.Fatalf("request %d within budget failed: %v", i, err)
		}
	}
	if _, err := Fetch(context.Background(), client, http.MethodGet, srv.URL, time.Second); err == nil {
		t.Fatal("request over budget must fail")
	}
}

func TestDomainBoundaryTransportBlocksCrossDomain(t *testing.T) {
	tr := &DomainBoundaryTransport{AllowedRootDomain: "example.com"}
	req, _ := http.NewRequest(http.MethodGet, "https://evil.test/x", nil)
	if _, err := tr.RoundTrip(req); err == nil {
		t.Fatal("cross-domain request must be blocked")
	}
}
