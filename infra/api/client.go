// Package api is the Medplus REST client: a thin HTTP wrapper plus the
// named post, user, upload, and symptom operations built on it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CrestNiraj12/medplus/infra/auth"
	"github.com/CrestNiraj12/medplus/infra/logging"
)

// Client is a thin HTTP wrapper for the Medplus API.
// It handles base URL construction, bearer token injection, JSON encoding,
// and failure normalization.
type Client struct {
	baseURL       string
	tokenProvider auth.TokenProvider
	http          *http.Client
	log           *logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero keeps requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the request logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.log = l.With("component", "api") }
}

// NewClient creates an API client. tp may be nil for unauthenticated use.
func NewClient(baseURL string, tp auth.TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		tokenProvider: tp,
		http:          &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one JSON API call.
type Request struct {
	Method string // Defaults to GET
	Path   string // Appended to the base URL
	Body   any    // JSON-encoded when non-nil
}

// Get performs a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path}, out)
}

// Post performs a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Delete performs a DELETE and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// Do performs r against the base URL. It always sends
// "Content-Type: application/json" and an Authorization header, which is
// "Bearer <token>" when a token is available and empty otherwise.
// The returned error is nil or a *Failure.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	token, err := c.accessToken()
	if err != nil {
		return transportFailure("auth: "+err.Error(), err)
	}

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return transportFailure("encoding request body", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+r.Path, body)
	if err != nil {
		return transportFailure("creating request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authorization(token))

	return c.send(req, out)
}

// send executes req and normalizes every outcome. Callers that build their
// own requests (multipart uploads, absolute URLs) share it with Do.
func (c *Client) send(req *http.Request, out any) error {
	start := time.Now()
	path := req.URL.Path

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api request failed", "method", req.Method, "path", path, "err", err)
		msg := fmt.Sprintf("request to %s failed", path)
		if errors.Is(err, context.Canceled) {
			msg = "request cancelled"
		}
		return transportFailure(msg, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure("reading response", err)
	}

	c.log.Debug("api request",
		"method", req.Method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f := httpFailure(resp.StatusCode, data)
		c.log.Warn("api error response", "method", req.Method, "path", path, "status", resp.StatusCode, "message", f.Message)
		return f
	}
	if f := businessFailure(resp.StatusCode, data); f != nil {
		c.log.Info("api business failure", "method", req.Method, "path", path, "message", f.Message)
		return f
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Failure{
			Status:  StatusFailed,
			Message: "invalid response from server",
			Code:    resp.StatusCode,
			Kind:    KindDecode,
			Err:     err,
		}
	}
	return nil
}

func (c *Client) accessToken() (string, error) {
	if c.tokenProvider == nil {
		return "", nil
	}
	return c.tokenProvider.AccessToken()
}

func authorization(token string) string {
	if token == "" {
		return ""
	}
	return "Bearer " + token
}
