package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kbukum/meetingnotes/httpclient"
	"github.com/kbukum/meetingnotes/provider"
)

var _ provider.Closeable = (*Client)(nil)

// Client is a JSON-focused REST client that wraps the base HTTP client.
// All requests use Content-Type: application/json and Accept: application/json.
type Client struct {
	http *httpclient.Client
}

// New creates a new REST client from the given config.
// JSON headers are applied automatically.
func New(cfg httpclient.Config) (*Client, error) {
	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string)
	}
	if _, ok := cfg.Headers["Content-Type"]; !ok {
		cfg.Headers["Content-Type"] = "application/json"
	}
	if _, ok := cfg.Headers["Accept"]; !ok {
		cfg.Headers["Accept"] = "application/json"
	}

	c, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// Name returns the underlying client name.
func (c *Client) Name() string {
	return c.http.Name()
}

// IsAvailable delegates to the underlying client.
func (c *Client) IsAvailable(ctx context.Context) bool {
	return c.http.IsAvailable(ctx)
}

// Close releases the underlying client's idle connections.
func (c *Client) Close(ctx context.Context) error {
	return c.http.Close(ctx)
}

// Response wraps a typed REST response.
type Response[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Data is the decoded response body.
	Data T
}

// Get performs a GET request and decodes the JSON response into type T.
func Get[T any](ctx context.Context, c *Client, path string) (*Response[T], error) {
	return do[T](ctx, c, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body and decodes the response into type T.
func Post[T any](ctx context.Context, c *Client, path string, body any) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPost, path, body)
}

// do executes a REST request and decodes the JSON response. An empty body
// (e.g. 204 No Content) leaves Data at its zero value.
func do[T any](ctx context.Context, c *Client, method, path string, body any) (*Response[T], error) {
	req := httpclient.Request{
		Method: method,
		Path:   path,
		Body:   body,
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		// Error responses are still decoded when they carry JSON.
		if resp != nil {
			var data T
			if jsonErr := json.Unmarshal(resp.Body, &data); jsonErr == nil {
				return &Response[T]{
					StatusCode: resp.StatusCode,
					Headers:    resp.Headers,
					Data:       data,
				}, err
			}
		}
		return nil, err
	}

	var data T
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			return nil, fmt.Errorf("httpclient/rest: decode response: %w", err)
		}
	}

	return &Response[T]{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Data:       data,
	}, nil
}
