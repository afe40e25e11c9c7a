package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

const defaultAttempts = 3

// ErrRetryExhausted reports that every attempt returned a non-success status.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// Client wraps outbound GET requests with a fixed retry ceiling. Non-success
// statuses are retried; transport failures abort immediately. Ingestion runs
// are periodic and idempotent, so there is no backoff between attempts.
type Client struct {
	http     *http.Client
	attempts int
	logger   *slog.Logger
}

var _ ports.Fetcher = (*Client)(nil)

// NewClient wires an HTTP client; attempts default to 3.
func NewClient(client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{http: client, attempts: defaultAttempts, logger: logger}
}

// Get fetches url, retrying non-success statuses up to the attempt ceiling,
// and returns the first successful response body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastStatus string

	for attempt := 1; attempt <= c.attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", "be-news-aggregator/1.0")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request %s: %w", url, err)
		}

		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			body, readErr := io.ReadAll(resp.Body)
			if closeErr := resp.Body.Close(); closeErr != nil && readErr == nil {
				readErr = closeErr
			}
			if readErr != nil {
				return nil, fmt.Errorf("read body: %w", readErr)
			}
			return body, nil
		}

		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()

		lastStatus = resp.Status
		c.logger.Warn("fetch attempt failed", "url", url, "attempt", attempt, "status", resp.Status)
	}

	return nil, fmt.Errorf("fetch %s after %d attempts (last status %s): %w",
		url, c.attempts, lastStatus, ErrRetryExhausted)
}
