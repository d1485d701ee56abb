package sparql

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client executes SPARQL queries against a remote endpoint and returns the
// flattened result bindings. It holds no per-query state, so a single client
// is safe for concurrent use by any number of goroutines.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a SPARQL client with connection pooling
func NewClient(endpoint, userAgent string, timeout time.Duration) *Client {
	return &Client{
		endpoint:  endpoint,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// Query executes one SPARQL query and returns its result bindings. Every
// failure mode (network, non-2xx status, malformed body) surfaces as a plain
// error; callers treat them uniformly as retryable.
func (c *Client) Query(ctx context.Context, query string) ([]Binding, error) {
	form := url.Values{}
	form.Set("query", query)
	form.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build SPARQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SPARQL request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read SPARQL response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("SPARQL endpoint returned status %d", resp.StatusCode)
	}

	bindings, err := ExtractBindings(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SPARQL response: %w", err)
	}

	return bindings, nil
}
