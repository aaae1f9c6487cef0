// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reply

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/logging"
)

// MaxResponseBytes caps how much of a response body is read.
const MaxResponseBytes = 4 << 20

// Fetcher turns one user message into one reply.
type Fetcher interface {
	Fetch(ctx context.Context, text string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, text string) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// Config holds configuration options for the reply client.
type Config struct {
	// URL of the answer endpoint.
	URL string

	// Timeout for the whole request including the body (default: 60s)
	Timeout time.Duration

	// UserAgent header (default: partner-tui/1.0)
	UserAgent string

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// =============================================================================
// CLIENT
// =============================================================================

// Client posts user messages to the answer endpoint.
//
// The Client is safe for concurrent use, although the chat view only ever has
// one request outstanding.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
}

type requestBody struct {
	Message string `json:"message"`
}

// NewClient creates a client, filling defaults for zero values.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "partner-tui/1.0"
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		url:        cfg.URL,
		userAgent:  cfg.UserAgent,
		httpClient: hc,
	}
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string {
	return c.url
}

// Fetch sends text as the sole payload field and returns the extracted reply.
// Exactly one HTTP request is made.
func (c *Client) Fetch(ctx context.Context, text string) (string, error) {
	log := logging.For("reply")

	payload, err := json.Marshal(requestBody{Message: text})
	if err != nil {
		return "", networkError("failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", networkError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	log.Info("reply_request", "endpoint", c.url, "bytes", len(payload))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", networkError("request timed out", err)
		}
		return "", networkError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", statusError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return "", networkError("failed to read response", err)
	}
	if len(body) > MaxResponseBytes {
		return "", networkError(fmt.Sprintf("response exceeds %d bytes", MaxResponseBytes), nil)
	}

	out, err := ExtractReply(body)
	if err != nil {
		return "", err
	}
	log.Debug("reply_received", "status", resp.StatusCode, "bytes", len(body), "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}
