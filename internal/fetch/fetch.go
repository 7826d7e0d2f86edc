// Package fetch provides the HTTP client used for every outbound page and
// calendar-file request.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// UserAgent identifies discovery traffic to the sites we crawl.
	UserAgent = "Mozilla/5.0 (expowatch; +https://github.com/tmcewan/expowatch)"

	// DefaultTimeout bounds a single request. A request exceeding it fails
	// like any other fetch error and the source is skipped.
	DefaultTimeout = 30 * time.Second

	maxRetries = 2
)

// Client wraps http.Client with the crawl defaults: UA header, bounded
// timeout, and a short capped-exponential retry on transient failures.
type Client struct {
	http *http.Client
}

// New creates a Client with the given per-request timeout. A zero timeout
// selects DefaultTimeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Get fetches a URL and returns the response body. Network errors and 5xx
// responses are retried with backoff; any other non-200 status fails
// immediately.
func (c *Client) Get(rawURL string) ([]byte, error) {
	var body []byte

	op := func() error {
		req, err := http.NewRequest(http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		return nil
	}

	policy := backoff.WithMaxRetries(newPolicy(), maxRetries)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	return body, nil
}

func newPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}
