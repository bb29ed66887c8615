// Package http provides the low-level HTTP transport for the Dataverse
// Web API client: authenticated requests with retries, timeouts and debug
// logging. Status codes are passed through untouched, mapping error
// responses onto the error taxonomy is the caller's concern.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Logger is the logging interface used by the transport.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TokenManager provides bearer tokens for requests.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
}

// Request represents an HTTP request to the Web API.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    interface{}
}

// Response represents an HTTP response from the Web API.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Client is an HTTP client for the Web API.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager TokenManager
	logger       Logger
	debug        bool
	userAgent    string
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout bounds each request attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig adjusts the retry behavior. Retries apply to connection
// errors and retryable status codes, plain 4xx responses are returned as
// is.
func WithRetryConfig(retryMax int, retryWaitMin, retryWaitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = retryWaitMin
		c.httpClient.RetryWaitMax = retryWaitMax
	}
}

// NewClient creates a new HTTP client for the given Web API endpoint.
func NewClient(baseURL string, tokenManager TokenManager, options ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 30 * time.Second
	retryClient.Logger = nil

	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   retryClient,
		tokenManager: tokenManager,
		userAgent:    "dataverse-go",
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// Do executes a request against the Web API. Responses are returned for
// every status code, the caller decides what counts as an error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.buildURL(req)

	var body interface{}
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		body = data
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if err := c.setHeaders(ctx, httpReq, req); err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": httpResp.StatusCode,
			"url":    fullURL,
			"bytes":  len(respBody),
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}, nil
}

// buildURL resolves the request target. Absolute paths pass through
// untouched, so continuation links returned by the service can be followed
// directly.
func (c *Client) buildURL(req *Request) string {
	fullURL := req.Path
	if !strings.HasPrefix(req.Path, "http") {
		fullURL = c.baseURL + req.Path
	}

	if len(req.Query) > 0 {
		separator := "?"
		if strings.Contains(fullURL, "?") {
			separator = "&"
		}

		fullURL += separator + req.Query.Encode()
	}

	return fullURL
}

func (c *Client) setHeaders(ctx context.Context, httpReq *retryablehttp.Request, req *Request) error {
	httpReq.Header.Set("Accept", "application/json")

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("getting auth token: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	return nil
}

// Get executes a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query, Headers: headers})
}

// Post executes a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body, Headers: headers})
}

// Patch executes a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPatch, Path: path, Body: body, Headers: headers})
}

// Delete executes a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path, Headers: headers})
}
