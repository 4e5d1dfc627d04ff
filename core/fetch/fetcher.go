// Package fetch downloads pre-rendered documents from the historical
// archive hosting. Bytes pass through verbatim; nothing here inspects or
// rewrites the files.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ignatius32/programas-crubunco/core"
)

const defaultTimeout = 30 * time.Second

// Client retrieves remote archive files over HTTP.
type Client struct {
	http *http.Client
}

// New creates a Client with a sensible timeout.
func New() *Client {
	return &Client{
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// Download retrieves the file at url and returns its raw bytes.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w: %v", url, core.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s: %w", resp.StatusCode, url, core.ErrUpstreamUnavailable)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}
