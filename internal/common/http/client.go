// internal/common/http/client.go
package http

import (
	"context"
	"net/http"
	"time"
)

// Client is the timeout-bearing HTTP client the portal clients share. Every
// outbound portal call carries the per-service timeout from config so a slow
// collaborator cannot outlive the job deadline.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}
