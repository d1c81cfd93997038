// Package http provides the HTTP client used to talk to NuGet v3 feeds.
//
// It wraps the standard http.Client with a user agent, per-request timeout,
// retry with exponential backoff, metrics, optional tracing and optional
// HTTP/3.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/willibrandon/nudll/observability"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultDialTimeout = 10 * time.Second
	DefaultUserAgent   = "nudll/0.1.0"
)

// Client wraps http.Client with NuGet-specific configuration
type Client struct {
	httpClient  *http.Client
	transport   http.RoundTripper
	userAgent   string
	retryConfig *RetryConfig
	logger      observability.Logger
}

// Config holds HTTP client configuration
type Config struct {
	Timeout       time.Duration
	UserAgent     string
	Transport     TransportConfig
	RetryConfig   *RetryConfig
	Logger        observability.Logger // nil uses the null logger
	EnableTracing bool
}

// DefaultConfig returns a client configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		Transport:   DefaultTransportConfig(),
		RetryConfig: DefaultRetryConfig(),
	}
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.RetryConfig == nil {
		cfg.RetryConfig = DefaultRetryConfig()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	transport := NewTransport(cfg.Transport)
	var rt http.RoundTripper = transport
	if cfg.EnableTracing {
		rt = observability.NewHTTPTracingTransport(transport)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Transport: rt,
			Timeout:   cfg.Timeout,
		},
		transport:   transport,
		userAgent:   cfg.UserAgent,
		retryConfig: cfg.RetryConfig,
		logger:      logger,
	}
}

// Do executes req once. No retry is attempted.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.roundTrip(ctx, req)
}

// Get performs a single GET request
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.Do(ctx, req)
}

// GetWithRetry performs a GET request with retry logic
func (c *Client) GetWithRetry(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.DoWithRetry(ctx, req)
}

// DoWithRetry executes req, retrying transient network errors and
// 429/503/504 responses with exponential backoff or the server's Retry-After.
func (c *Client) DoWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	var resp *http.Response

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		// Clone request for retry (body may have been consumed)
		attemptReq := req.Clone(ctx)
		if attemptReq.Header.Get("User-Agent") == "" {
			attemptReq.Header.Set("User-Agent", c.userAgent)
		}

		resp, lastErr = c.roundTrip(ctx, attemptReq)

		if lastErr == nil && !IsRetriableStatus(resp.StatusCode) {
			if attempt > 0 {
				c.logger.InfoContext(ctx, "HTTP {Method} {URL} succeeded after {Attempt} retries",
					req.Method, req.URL.String(), attempt)
			}
			return resp, nil
		}

		if lastErr != nil && !IsRetriable(lastErr) {
			return nil, lastErr
		}

		if attempt == c.retryConfig.MaxRetries {
			break
		}

		var backoff time.Duration
		if resp != nil {
			backoff = ParseRetryAfter(resp.Header.Get("Retry-After"))
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			_ = resp.Body.Close()
		}
		if backoff == 0 {
			backoff = c.retryConfig.CalculateBackoff(attempt)
		}

		c.logger.DebugContext(ctx, "HTTP {Method} {URL} retry {Attempt}/{MaxRetries} after {Backoff}ms",
			req.Method, req.URL.String(), attempt+1, c.retryConfig.MaxRetries, backoff.Milliseconds())

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if lastErr != nil {
		c.logger.ErrorContext(ctx, "HTTP {Method} {URL} failed after {MaxRetries} retries: {Error}",
			req.Method, req.URL.String(), c.retryConfig.MaxRetries, lastErr)
		return nil, fmt.Errorf("after %d retries: %w", c.retryConfig.MaxRetries, lastErr)
	}

	// Retries exhausted on a retriable status: hand the last response back.
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, req *http.Request) (*http.Response, error) {
	c.logger.DebugContext(ctx, "HTTP {Method} {URL}", req.Method, req.URL.String())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.WarnContext(ctx, "HTTP {Method} {URL} failed after {Duration}ms: {Error}",
			req.Method, req.URL.String(), duration.Milliseconds(), err)
		observability.HTTPRequestsTotal.WithLabelValues(req.Method, "error", req.URL.Host).Inc()
		return nil, err
	}

	c.logger.DebugContext(ctx, "HTTP {Method} {URL} → {StatusCode} ({Duration}ms, {Protocol})",
		req.Method, req.URL.String(), resp.StatusCode, duration.Milliseconds(), ProtocolVersion(resp))
	observability.HTTPRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode), req.URL.Host).Inc()
	observability.HTTPRequestDuration.WithLabelValues(req.Method, req.URL.Host).Observe(duration.Seconds())

	return resp, nil
}

// Close releases idle connections held by the transport.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	if closer, ok := c.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Option is a functional option for configuring the client
type Option func(*Config)

// WithTimeout sets the request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *Config) {
		cfg.Timeout = timeout
	}
}

// WithUserAgent sets the user agent string
func WithUserAgent(ua string) Option {
	return func(cfg *Config) {
		cfg.UserAgent = ua
	}
}

// WithMaxRetries sets the maximum number of retries
func WithMaxRetries(n int) Option {
	return func(cfg *Config) {
		if cfg.RetryConfig == nil {
			cfg.RetryConfig = DefaultRetryConfig()
		}
		cfg.RetryConfig.MaxRetries = n
	}
}

// WithRetryConfig sets custom retry configuration
func WithRetryConfig(retryCfg *RetryConfig) Option {
	return func(cfg *Config) {
		cfg.RetryConfig = retryCfg
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger observability.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// WithTracing wraps the transport with OpenTelemetry client spans
func WithTracing(enabled bool) Option {
	return func(cfg *Config) {
		cfg.EnableTracing = enabled
	}
}

// WithHTTP3 enables the experimental HTTP/3 transport
func WithHTTP3(enabled bool) Option {
	return func(cfg *Config) {
		cfg.Transport.EnableHTTP3 = enabled
	}
}

// NewClientWithOptions creates a client with functional options
func NewClientWithOptions(opts ...Option) *Client {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return NewClient(cfg)
}
