package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client provides a configurable HTTP client with a politeness limiter so
// repeated calls against the same upstream stay paced.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

// New creates a new HTTP client with the specified timeout and a minimum
// interval between requests. minInterval <= 0 disables pacing.
func New(timeout time.Duration, minInterval time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if minInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(minInterval), 1)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		timeout:    timeout,
	}
}

// Get performs a GET request with proper context and headers, waiting on the
// limiter first.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return c.httpClient.Do(req)
}

// HTTP exposes the underlying http.Client for libraries that take one
// directly. Requests made through it bypass the limiter.
func (c *Client) HTTP() *http.Client {
	return c.httpClient
}

// GetTimeout returns the client timeout
func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}
