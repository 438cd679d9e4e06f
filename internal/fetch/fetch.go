// Package fetch provides the retrying HTTP GET client shared by all upstream
// source adapters.
package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/meteor-watch/internal/config"
	"github.com/couchcryptid/meteor-watch/internal/observability"
)

// Client issues GET requests with a per-call timeout, retrying on HTTP 429
// and transport-level failures with a linear backoff (baseDelay * attempt,
// no jitter). Any other non-200 status fails immediately. A client configured
// with N retries makes up to N+1 attempts.
type Client struct {
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient builds the shared upstream fetch client from configuration.
// FETCH_INSECURE_TLS disables certificate verification toward upstream hosts;
// it exists only for broken local proxy environments and must stay off in
// production.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	if cfg.FetchInsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in escape hatch, see NewClient doc
		logger.Warn("upstream TLS certificate verification disabled")
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.FetchTimeout, Transport: transport},
		maxRetries: cfg.FetchMaxRetries,
		baseDelay:  cfg.FetchBaseDelay,
		logger:     logger,
		metrics:    metrics,
	}
}

// Get performs a GET against rawURL with params merged into its query string
// and returns the response body.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()
	target := u.String()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.metrics.FetchRetries.Inc()
			if !sleepWithContext(ctx, c.baseDelay*time.Duration(attempt)) {
				return nil, ctx.Err()
			}
		}

		body, retryable, err := c.attempt(ctx, target)
		if err == nil {
			c.logger.Debug("fetch succeeded", "url", u.Host, "attempt", attempt+1)
			return body, nil
		}
		if !retryable {
			c.logger.Warn("fetch failed", "url", u.Host, "attempt", attempt+1, "error", err)
			return nil, err
		}

		c.logger.Warn("fetch attempt failed, will retry", "url", u.Host, "attempt", attempt+1, "error", err)
		lastErr = err
	}

	return nil, fmt.Errorf("fetch: retries exhausted: %w", lastErr)
}

// attempt runs one GET. The second return value reports whether the failure
// is transient (429 or transport error) and worth retrying.
func (c *Client) attempt(ctx context.Context, target string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("read body: %w", err)
		}
		return body, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("upstream rate limited: status %d", resp.StatusCode)
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, false, fmt.Errorf("upstream error: status %d: %s", resp.StatusCode, snippet)
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
