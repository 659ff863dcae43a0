// Package searchclient is the indexer's outbound client to the Searching
// Service. It reconnects with unbounded backoff at startup and retries a
// failed publish indefinitely — a single poisoned page blocks its own
// worker rather than being dropped.
package searchclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryInterval is the fixed backoff between connection attempts and
// between failed publish retries.
const retryInterval = 5 * time.Second

// Client publishes extracted page text to the Searching Service over
// HTTP+JSON. One Client is created per worker so no call-site lock is
// needed.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// addPageRequest mirrors the Searching Service's AddPage RPC payload.
type addPageRequest struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Connect attempts to reach the Searching Service's health endpoint in a
// loop with a 5-second backoff, logging each failure, until it succeeds or
// ctx is cancelled.
func Connect(ctx context.Context, baseURL string, logger *slog.Logger) (*Client, error) {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(retryInterval), ctx)
	err := backoff.Retry(func() error {
		logger.Info("connecting to search backend", "url", baseURL)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			logger.Warn("search backend connect failed", "error", err)
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("search backend health check: status %d", resp.StatusCode)
			logger.Warn("search backend connect failed", "error", err)
			return err
		}
		return nil
	}, b)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// AddPage publishes (url, text) to the Searching Service, retrying the same
// payload with a 5-second backoff indefinitely until it succeeds or ctx is
// cancelled. A single stuck page blocks only the worker that owns this
// Client, not the rest of the pool.
func (c *Client) AddPage(ctx context.Context, url, text string) error {
	body, err := json.Marshal(addPageRequest{URL: url, Text: text})
	if err != nil {
		return err
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(retryInterval), ctx)
	return backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pages", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			c.logger.Warn("add_page failed", "url", url, "error", err)
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode/100 != 2 {
			err := fmt.Errorf("add_page: status %d", resp.StatusCode)
			c.logger.Warn("add_page failed", "url", url, "error", err)
			return err
		}
		return nil
	}, b)
}
