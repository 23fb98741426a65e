package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// Ping probes the backend root route.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	var (
		requestID string
		status    int
	)
	defer func() { c.observe(ctx, endpointPing, requestID, start, status, err) }()

	req, requestID, err := c.newRequest(ctx, http.MethodGet, "/", http.NoBody)
	if err != nil {
		return domain.NewTransportError(endpointPing, err)
	}

	status, raw, err := c.do(req)
	if err != nil {
		return domain.NewTransportError(endpointPing, err)
	}
	if !isSuccess(status) {
		return domain.NewServerError(status, extractDetail(raw))
	}
	return nil
}
