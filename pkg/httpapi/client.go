// Package httpapi provides gauge providers backed by the tools HTTP API.
//
// A single Client carries the base URL, bearer token, outbound rate limit
// and HTTP transport. The pressure and vacuum services implement
// gauge.Provider; the client itself implements gauge.BoilingPointProvider
// and gauge.BarometricProvider.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/zoobzio/gauge"
)

// DefaultTimeout bounds a single HTTP exchange when no client is supplied.
const DefaultTimeout = 10 * time.Second

// maxBody caps how much of a response body is read.
const maxBody = 1 << 20

// Client performs JSON requests against the tools API.
type Client struct {
	base    string
	http    *http.Client
	token   string
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRateLimit caps outbound requests at rps with the given burst. A
// non-positive rps disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/") + "/",
		http: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.base }

// Post sends in as JSON to endpoint and decodes the response into out.
//
// Transport failures become NetworkUnreachable errors, failure statuses
// become ProviderRejected errors carrying the server's message, and bodies
// that cannot be decoded become MalformedResponse errors. A response
// wrapped as {"data": {...}} is unwrapped first.
func (c *Client) Post(ctx context.Context, endpoint string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(body), out)
}

// Get requests endpoint with query parameters and decodes the response into
// out. Error classification matches Post.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return gauge.NetworkError(fmt.Errorf("rate limit: %w", err))
		}
	}

	u := c.base + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return classifyTransport(ctx, err)
	}
	if resp.StatusCode/100 != 2 {
		return gauge.RejectedError(resp.StatusCode, serverMessage(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(unwrap(data), out); err != nil {
		return gauge.MalformedError(fmt.Sprintf("decode %s response", endpoint), err)
	}
	return nil
}

func classifyTransport(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return ctx.Err()
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return gauge.TimeoutError(err)
	}
	return gauge.NetworkError(err)
}

// unwrap returns the value of a top-level "data" object, or data itself.
func unwrap(data []byte) []byte {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return data
	}
	inner, ok := env["data"]
	if !ok {
		return data
	}
	if trimmed := bytes.TrimSpace(inner); len(trimmed) > 0 && trimmed[0] == '{' {
		return trimmed
	}
	return data
}

// serverMessage extracts a human-readable message from an error body.
func serverMessage(data []byte) string {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error", "detail"} {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
