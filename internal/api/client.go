// Package api provides a typed client for the MatrixLogger REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// Client is an API client for a MatrixLogger server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// ClientOption customizes a Client
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client (used by tests)
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets the bearer token used for authenticated endpoints
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new API client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.token != "" {
		// Route authenticated requests through an oauth2 transport so the
		// Authorization header is attached uniformly.
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token, TokenType: "Bearer"})
		c.httpClient = &http.Client{
			Timeout: c.httpClient.Timeout,
			Transport: &oauth2.Transport{
				Source: src,
				Base:   c.httpClient.Transport,
			},
		}
	}
	return c
}

// WithAuth returns a copy of the client authenticated with the given token.
func (c *Client) WithAuth(token string) *Client {
	return NewClient(c.baseURL, WithToken(token))
}

// BaseURL returns the server base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a GET request and unmarshals the JSON response into result.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// do performs a JSON request and decodes the response into result when
// result is non-nil. Non-2xx responses are returned as *Error.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// query builds an encoded query string from non-empty parameters
func query(params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
