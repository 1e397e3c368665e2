package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenStore provides the bearer token attached to every request. It is
// read before each request, so a token cleared by a concurrent request is
// picked up by the next one.
type TokenStore interface {
	Token() (string, error)
}

// StaticToken is a TokenStore holding a fixed token
type StaticToken string

// Token implements TokenStore
func (s StaticToken) Token() (string, error) {
	return string(s), nil
}

// Client represents a VHF gateway API client
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenStore
	onUnauthorized func()
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new API client. baseURL is the gateway origin; the
// /api prefix is added by the client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets a custom timeout for the HTTP client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTokenStore sets where the bearer token is read from
func WithTokenStore(tokens TokenStore) ClientOption {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithUnauthorizedHandler sets the callback run when the gateway rejects the
// token. It runs once per rejected request.
func WithUnauthorizedHandler(fn func()) ClientOption {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// BaseURL returns the gateway origin
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestIDKey struct{}

// ContextWithRequestID attaches a request id that is forwarded to the gateway
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id carried by ctx, if any
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// request describes one call to the gateway
type request struct {
	method    string
	path      string
	query     url.Values
	body      interface{}
	anonymous bool
}

// newRequest builds an HTTP request with the common headers
func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	var reqBody io.Reader
	if r.body != nil {
		jsonData, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	target := c.baseURL + "/api" + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)

	if !r.anonymous && c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// doRequest performs an HTTP request and handles common errors. The caller
// must close the body of the returned response.
func (c *Client) doRequest(ctx context.Context, r request) (*http.Response, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: r.method, Path: r.path, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && !r.anonymous {
		resp.Body.Close()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, newAPIError(resp.StatusCode, body)
	}

	return resp, nil
}

// call performs a request and decodes the JSON response into out, when set
func (c *Client) call(ctx context.Context, r request, out interface{}) error {
	resp, err := c.doRequest(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to decode response: empty body")
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
