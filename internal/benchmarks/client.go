package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fetches the benchmark snapshot from its CDN URL. Unlike the GitHub
// client there is no conditional-request support and no partial merge: the
// snapshot is atomic, so any failure yields an error with no data.
type Client struct {
	url  string
	http *http.Client
}

// NewClient returns a client for the given CDN URL.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{url: url, http: &http.Client{Timeout: timeout}}
}

// Fetch retrieves and parses the full snapshot.
func (c *Client) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "agentdeck")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("benchmarks: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("benchmarks: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("benchmarks: read: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("benchmarks: parse: %w", err)
	}
	return records, nil
}
