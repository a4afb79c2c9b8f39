package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxBodyBytes = 64 << 20

// Fetch outcomes reported to an Observer.
const (
	OutcomeOK      = "ok"
	OutcomeNetwork = "network"
	OutcomeStatus  = "status"
	OutcomeShape   = "shape"
)

// Source yields raw JSON arrays for report endpoints.
type Source interface {
	FetchArray(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
}

// Observer receives the outcome of every upstream request.
type Observer interface {
	ObserveFetch(endpoint, outcome string, elapsed time.Duration)
}

// Client talks to the reporting API. Each call is a single uncached GET; the
// caller bounds it through ctx.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *slog.Logger
	observer Observer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a logger for per-request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient constructs a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Fetch performs one GET and returns the body once it is known to be valid JSON.
func (c *Client) Fetch(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.fetch(ctx, path, query, false)
}

// FetchArray is Fetch for endpoints that promise a JSON array.
func (c *Client) FetchArray(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.fetch(ctx, path, query, true)
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values, wantArray bool) (json.RawMessage, error) {
	start := time.Now()
	body, status, err := c.do(ctx, path, query)
	outcome := OutcomeOK
	switch {
	case err != nil:
		outcome = OutcomeNetwork
		err = &NetworkError{Endpoint: path, Err: err}
	case status < 200 || status >= 300:
		outcome = OutcomeStatus
		err = &StatusError{Status: status, Endpoint: path}
	case !json.Valid(body):
		outcome = OutcomeShape
		err = &ShapeError{Endpoint: path, Reason: "invalid json"}
	case wantArray:
		if err = expectArray(path, body); err != nil {
			outcome = OutcomeShape
		}
	}
	c.observe(endpointLabel(path), outcome, status, time.Since(start))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *Client) do(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, resp.StatusCode, nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func (c *Client) observe(label, outcome string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveFetch(label, outcome, elapsed)
	}
	if c.logger != nil {
		c.logger.Debug("report fetch",
			slog.String("endpoint", label),
			slog.String("outcome", outcome),
			slog.Int("status", status),
			slog.Duration("elapsed", elapsed),
		)
	}
}

func expectArray(path string, raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return &ShapeError{Endpoint: path, Reason: "expected array"}
	}
	return nil
}

// decodeArray unmarshals a validated array payload into rows.
func decodeArray[T any](path string, raw json.RawMessage) ([]T, error) {
	if err := expectArray(path, raw); err != nil {
		return nil, err
	}
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &ShapeError{Endpoint: path, Reason: "invalid json"}
		}
		return nil, &ShapeError{Endpoint: path, Reason: fmt.Sprintf("decode rows: %v", err)}
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

func endpointLabel(path string) string {
	if strings.HasPrefix(path, EndpointKeywordRecommendation) {
		return EndpointKeywordRecommendation + "{campaignId}/{adGroupId}"
	}
	return path
}
