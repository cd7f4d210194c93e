// Package fetcher implements the HTTP retrieval and HTML parsing steps of
// the crawl pipeline: one shared client per crawl, and a pure function
// turning a fetched page into a ParsedPage.
package fetcher

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/rehttp"
)

// dnsCacheTTL is the lifetime of a cached host resolution, shared by
// every fetch issued by a Fetcher.
const dnsCacheTTL = 300 * time.Second

// Fetcher issues single GET requests over one shared *http.Client, so a
// crawl's entire connection pool, DNS cache and TLS session cache are
// reused across every worker. The HTTP-status-based retryable/permanent
// classification and the linear inter-attempt backoff belong to the
// caller (package crawler): they need exact control over attempt count
// and sleep timing that a transport-level retry policy cannot express.
// rehttp is layered in underneath purely to absorb transient
// below-the-HTTP-layer errors (reset connections, dial timeouts) that
// would otherwise abort a request the caller never gets a chance to
// classify as retryable.
type Fetcher struct {
	userAgent string
	client    *http.Client
}

// New builds a Fetcher whose connections to any single host are capped at
// maxConns (ordinarily max_global_workers) and whose requests each carry
// an overall timeout of requestTimeout. The total number of connections
// across hosts is not capped by the transport.
func New(userAgent string, requestTimeout time.Duration, maxConns int) *Fetcher {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	dns := newDNSCache(dnsCacheTTL)

	base := &http.Transport{
		DialContext:         dns.dialContext(dialer),
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: false},
		MaxConnsPerHost:     maxConns,
		MaxIdleConnsPerHost: maxConns,
		IdleConnTimeout:     90 * time.Second,
	}
	transport := rehttp.NewTransport(
		base,
		rehttp.RetryAll(rehttp.RetryMaxRetries(1), rehttp.RetryTemporaryErr()),
		rehttp.ConstDelay(200*time.Millisecond),
	)

	return &Fetcher{
		userAgent: userAgent,
		client:    &http.Client{Timeout: requestTimeout, Transport: transport},
	}
}

// Fetch performs a single GET request, returning the decoded body as a
// string and the HTTP status code. A non-nil error means no usable body
// was obtained: when the request itself failed (network error) the status
// code is zero; when the response arrived but its body could not be read,
// the response's status code is returned alongside the error.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}
	return string(body), resp.StatusCode, nil
}
