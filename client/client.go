// Package client provides a small HTTP client for probing a running boar
// application, built on resty. It is used by deployment glue and tests to
// wait until the bootstrap's listeners answer.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps resty.Client. Embedding exposes the full resty API while
// allowing bootstrap-specific helpers.
type Client struct {
	*resty.Client
}

// New creates a Client targeting baseURL (e.g. "http://127.0.0.1:3000").
func New(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second)

	return &Client{Client: c}
}

// WaitReady polls path (typically the health endpoint) until it answers
// 200, the context is done, or the deadline passes. The poll interval
// starts at 25ms and doubles up to 500ms.
func (c *Client) WaitReady(ctx context.Context, path string) error {
	interval := 25 * time.Millisecond
	const maxInterval = 500 * time.Millisecond

	for {
		resp, err := c.R().SetContext(ctx).Get(path)
		if err == nil && resp.StatusCode() == http.StatusOK {
			return nil
		}

		select {
		case <-ctx.Done():
			if err != nil {
				return fmt.Errorf("server not ready: %w", err)
			}
			return fmt.Errorf("server not ready: last status %d: %w", resp.StatusCode(), ctx.Err())
		case <-time.After(interval):
		}

		if interval < maxInterval {
			interval *= 2
		}
	}
}
