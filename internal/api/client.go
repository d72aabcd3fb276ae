// Package api is the console's only door to the REST backend.  Every call
// carries the bearer token of the session bound to its context, and every
// 401 expires that session before the error is returned.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client is a thin JSON client for the backend.  It performs a single
// request per call: no retries and no client-side timeout beyond the
// caller's context.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// Do sends body (JSON encoded when non-nil) to path and decodes a success
// response into out.  fallback is the message used when the backend gives
// none.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, fallback string) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: fallback, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return &Error{Message: fallback, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	sess, hasSession := SessionFrom(ctx)
	if hasSession {
		if token := sess.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &Error{Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: fallback, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if hasSession {
			sess.Expire(ctx)
		}
		return &Error{Status: resp.StatusCode, Message: messageOr(raw, fallback), Err: ErrUnauthorized}
	}
	if resp.StatusCode >= 400 {
		return &Error{
			Status:  resp.StatusCode,
			Message: messageOr(raw, fallback),
			Err:     fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode),
		}
	}

	if err := Decode(raw, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: fallback, Err: err}
	}
	return nil
}

func messageOr(body []byte, fallback string) string {
	if m := errorMessage(body); m != "" {
		return m
	}
	return fallback
}
