// Package backend is the HTTP client for the document search backend
// (upload and search endpoints).
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	logpkg "github.com/kailas-cloud/docsearch/internal/logger"
	"github.com/kailas-cloud/docsearch/internal/metrics"
)

const (
	// DefaultUploadPath is the multipart upload endpoint.
	DefaultUploadPath = "/api/upload"
	// DefaultSearchPath is the JSON search endpoint.
	DefaultSearchPath = "/api/search"

	// RequestIDHeader carries the per-call correlation id.
	RequestIDHeader = "X-Request-ID"

	endpointUpload = "upload"
	endpointSearch = "search"
	endpointPing   = "ping"
)

// Client talks to the search backend. Each call is a single request:
// no retries, no queueing. Without WithTimeout a call runs until the
// server answers or the connection fails.
type Client struct {
	baseURL    string
	uploadPath string
	searchPath string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Backend
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each call. Zero keeps calls unbounded.
// The client is copied so a shared *http.Client is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithPaths overrides the upload and search endpoint paths. Empty values keep the defaults.
func WithPaths(uploadPath, searchPath string) Option {
	return func(c *Client) {
		if uploadPath != "" {
			c.uploadPath = uploadPath
		}
		if searchPath != "" {
			c.searchPath = searchPath
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMetrics enables per-call prometheus metrics.
func WithMetrics(m *metrics.Backend) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a backend client for baseURL (e.g. http://localhost:8000).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		uploadPath: DefaultUploadPath,
		searchPath: DefaultSearchPath,
		userAgent:  "docsearch",
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newRequest builds a request with the common headers and a fresh request id.
func (c *Client) newRequest(
	ctx context.Context, method, path string, body io.Reader,
) (*http.Request, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	return req, requestID, nil
}

// do executes the request and reads the whole body.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err //nolint:wrapcheck // wrapped by caller as TransportError
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, raw, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// observe emits the per-call log line and metrics.
func (c *Client) observe(
	ctx context.Context, endpoint, requestID string, start time.Time, status int, err error,
) {
	dur := time.Since(start)
	outcome := outcomeOf(err)
	c.metrics.Observe(endpoint, outcome, dur)

	l := logpkg.FromContextOr(ctx, c.logger)
	fields := []zap.Field{
		zap.String("endpoint", endpoint),
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.String("outcome", outcome),
		zap.Duration("latency", dur),
	}
	if err != nil {
		l.Warn("backend call failed", append(fields, zap.Error(err))...)
		return
	}
	l.Debug("backend call completed", fields...)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrServerFailure):
		return metrics.OutcomeServerError
	case errors.Is(err, domain.ErrMalformedResponse):
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeTransportError
	}
}
