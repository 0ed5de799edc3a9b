// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package backend is the HTTP client for the remote travel API that owns
// treks, tours, blogs, reviews and activities.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
)

// Client defaults.
const (
	DefaultTimeout = 15 * time.Second
	DefaultRetries = 2
	MaxResponseLen = 8 << 20
	UserAgent      = "jamjam/1.0"
	retryBase      = 200 * time.Millisecond
)

// MsgAuthRequired is shown when an authenticated call has no token.
const MsgAuthRequired = "Authentication required. Please log in again."

// ErrNotAuthenticated is returned before any network call when an
// operation that needs a token is given none.
var ErrNotAuthenticated = errors.New("backend: not authenticated")

// ErrResponseTooLarge is returned when a reply exceeds MaxResponseLen.
var ErrResponseTooLarge = errors.New("backend: response too large")

// APIError is a non-success response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d: %s", e.Status, e.Message)
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Retries is the number of extra attempts for idempotent GETs.
	Retries uint64
	// MethodOverride sends updates as POST with _method=PUT.
	MethodOverride bool
}

// Client talks to the remote API. It is safe for concurrent use.
type Client struct {
	baseURL        string
	http           *http.Client
	retries        uint64
	methodOverride bool
	logger         *slog.Logger
}

// New creates a client. A zero timeout uses DefaultTimeout.
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retries:        cfg.Retries,
		methodOverride: cfg.MethodOverride,
		logger:         logger,
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// request describes one outbound call.
type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        []byte
	contentType string
	// public calls need no token.
	public bool
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// do performs r once and returns the response body of a 2xx reply.
// Non-2xx replies become *APIError.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Request-ID", requestID(ctx))
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(data) > MaxResponseLen {
		return nil, fmt.Errorf("%s %s: %w (limit %d bytes)", r.method, r.path, ErrResponseTooLarge, MaxResponseLen)
	}

	c.logger.Debug("backend request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: ErrorMessage(data, resp.StatusCode)}
	}
	return data, nil
}

// get performs an idempotent GET, retrying network failures and 5xx
// replies with exponential backoff.
func (c *Client) get(ctx context.Context, path string, q url.Values, token string) ([]byte, error) {
	var out []byte
	b := retry.WithMaxRetries(c.retries, retry.NewExponential(retryBase))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		data, err := c.do(ctx, request{method: http.MethodGet, path: path, query: q, token: token})
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Status < 500 {
				return err
			}
			if ctx.Err() != nil || errors.Is(err, ErrResponseTooLarge) {
				return err
			}
			c.logger.Debug("retrying backend request", "path", path, "error", err)
			return retry.RetryableError(err)
		}
		out = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// mutate performs a non-idempotent call once and rejects 2xx replies whose
// envelope carries success=false.
func (c *Client) mutate(ctx context.Context, r request) ([]byte, error) {
	if r.token == "" && !r.public {
		return nil, ErrNotAuthenticated
	}
	data, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	if s := gjson.GetBytes(data, "success"); s.Exists() && s.Type == gjson.False {
		return nil, &APIError{Status: http.StatusOK, Message: ErrorMessage(data, http.StatusOK)}
	}
	return data, nil
}

// ErrorMessage extracts the human-readable reason from an error body:
// "message", then "error", then the first entry of "errors" (a list or a
// field-keyed object of lists). Unreadable bodies get a generic message.
func ErrorMessage(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		for _, path := range []string{"message", "error", "error.message"} {
			if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.Str != "" {
				return v.Str
			}
		}
		if msg := firstMessage(gjson.GetBytes(body, "errors")); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("Request failed with status %d", status)
}

func firstMessage(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return v.Str
	case v.IsArray() || v.IsObject():
		var msg string
		v.ForEach(func(_, item gjson.Result) bool {
			msg = firstMessage(item)
			return msg == ""
		})
		return msg
	default:
		return ""
	}
}

// requestID forwards the inbound request id, or mints one.
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
