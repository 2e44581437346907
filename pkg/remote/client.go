// Package remote pushes logic-model objects to a collaboration server.
//
// Client implements logicmodel.RemoteSync over HTTP: each object is POSTed
// as JSON and the server answers with the ID it assigned.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/logicmodel"
)

// RequestIDHeader carries a per-push UUID so server logs can be correlated.
const RequestIDHeader = "X-Request-ID"

// ErrServer reports a push the server rejected.
var ErrServer = errors.New("remote: server rejected object")

// Client pushes objects to a server.
type Client struct {
	http    *http.Client
	timeout time.Duration
	retries int
	backoff time.Duration
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each attempt. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetries retries transport errors and 5xx answers n times, waiting
// backoff, 2*backoff, ... between attempts.
func WithRetries(n int, backoff time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.backoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client. Without options it uses a 10s timeout and no retries.
func New(opts ...Option) *Client {
	c := &Client{
		http:    http.DefaultClient,
		timeout: 10 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type pushResponse struct {
	ID    logicmodel.ObjectID `json:"id"`
	Error string              `json:"error,omitempty"`
}

// PushObject sends p to serverURL and returns the server-assigned ID.
func (c *Client) PushObject(ctx context.Context, serverURL string, p logicmodel.RemotePayload) (logicmodel.ObjectID, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return logicmodel.NoID, fmt.Errorf("remote: encode %s %d: %w", p.Type, p.LocalID, err)
	}
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<(attempt-1))
			c.logger.Debug("retrying push", "request_id", requestID, "attempt", attempt, "wait", wait)
			select {
			case <-ctx.Done():
				return logicmodel.NoID, ctx.Err()
			case <-time.After(wait):
			}
		}

		id, retry, err := c.push(ctx, serverURL, requestID, body)
		if err == nil {
			c.logger.Debug("object pushed", "request_id", requestID, "type", p.Type, "local_id", p.LocalID, "remote_id", id)
			return id, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return logicmodel.NoID, lastErr
}

// push makes one attempt. Transport failures are retryable as long as the
// caller's ctx is still live, even when the attempt's own timeout expired.
func (c *Client) push(ctx context.Context, serverURL, requestID string, body []byte) (id logicmodel.ObjectID, retry bool, err error) {
	attemptCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, serverURL, bytes.NewReader(body))
	if err != nil {
		return logicmodel.NoID, false, fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return logicmodel.NoID, ctx.Err() == nil, fmt.Errorf("remote: post %s: %w", serverURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return logicmodel.NoID, ctx.Err() == nil, fmt.Errorf("remote: read response: %w", err)
	}

	var out pushResponse
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Error bodies are often plain text.
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(data, &out) == nil && out.Error != "" {
			msg = out.Error
		}
		return logicmodel.NoID, resp.StatusCode >= 500, fmt.Errorf("%w: %d %s", ErrServer, resp.StatusCode, msg)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return logicmodel.NoID, false, fmt.Errorf("%w: decode response: %w", ErrServer, err)
	}
	if out.ID == logicmodel.NoID {
		return logicmodel.NoID, false, fmt.Errorf("%w: response carries no id", ErrServer)
	}
	return out.ID, false, nil
}

var _ logicmodel.RemoteSync = (*Client)(nil)
