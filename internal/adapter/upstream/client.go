// Package upstream is the shared HTTP plumbing for third-party data providers:
// per-request timeouts, optional client-side rate limiting, status checking,
// JSON decoding and Prometheus instrumentation.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"golang.org/x/time/rate"
)

// maxErrorBody bounds how much of a failed response is copied into errors.
const maxErrorBody = 512

// StatusError is returned when a provider answers with a non-200 status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Client performs instrumented requests against one provider.
type Client struct {
	provider   string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	metrics    *observability.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit caps outbound requests per second. Callers block until a
// token is available or their context ends.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the named provider with a per-request timeout.
func New(provider string, timeout time.Duration, metrics *observability.Metrics, opts ...Option) *Client {
	c := &Client{
		provider:   provider,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider name used in errors and metric labels.
func (c *Client) Provider() string { return c.provider }

// GetJSON issues a GET and decodes a 200 response body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.Do(req, out)
}

// PostJSON issues a POST with the given body and decodes a 200 response into out.
func (c *Client) PostJSON(ctx context.Context, url, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(req, out)
}

// Do sends req and decodes a 200 response body into out.
func (c *Client) Do(req *http.Request, out any) (err error) {
	start := time.Now()
	defer func() {
		c.observe(start, err)
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("%s rate limit: %w", c.provider, err)
		}
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", c.provider, redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Provider: c.provider, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.provider, err)
	}
	return nil
}

func (c *Client) observe(start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.UpstreamRequests.WithLabelValues(c.provider, outcome).Inc()
	c.metrics.UpstreamDuration.WithLabelValues(c.provider).Observe(time.Since(start).Seconds())
}

// redact strips the query string from transport errors. Providers take their
// API keys as query parameters and *url.Error prints the full URL.
func redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	u, perr := url.Parse(uerr.URL)
	if perr != nil {
		return &url.Error{Op: uerr.Op, URL: "<redacted>", Err: uerr.Err}
	}
	u.RawQuery = ""
	u.User = nil
	return &url.Error{Op: uerr.Op, URL: u.String(), Err: uerr.Err}
}
