// Package client implements the Dataverse Web API client: request
// execution with the method default headers, error-envelope handling and
// the pagination engine, on top of the internal HTTP transport and OAuth2
// token manager.
package client

import (
	"context"
	"fmt"
	nethttp "net/http"
	"sync/atomic"
	"time"

	"github.com/dynamics-go/dataverse/internal/auth"
	internalhttp "github.com/dynamics-go/dataverse/internal/http"
	"github.com/dynamics-go/dataverse/pkg/dataverse"
)

// Client executes queries against the Dataverse Web API.
type Client struct {
	httpClient *internalhttp.Client
	logger     dataverse.Logger
	baseURL    string
	query      *dataverse.Query

	requestCounter atomic.Int64
}

var _ dataverse.Client = (*Client)(nil)

// New creates a Web API client from the configuration.
func New(config *dataverse.Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	tokenCache, err := selectTokenCache(config)
	if err != nil {
		return nil, err
	}

	tokenManager := auth.NewClientCredentialsManager(&auth.OAuth2Config{
		TokenURL:     config.TokenURL,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       config.Scope,
		Resource:     config.Resource,
		Timeout:      config.ConnectionTimeout,
	}, tokenCache)

	timeout := config.ConnectionTimeout
	if timeout == 0 {
		timeout = dataverse.DefaultConnectionTimeout
	}

	options := []internalhttp.Option{
		internalhttp.WithTimeout(timeout),
		internalhttp.WithDebug(config.Debug),
	}

	if config.Logger != nil {
		options = append(options, internalhttp.WithLogger(config.Logger))
	}

	if config.UserAgent != "" {
		options = append(options, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := config.RetryWaitMin
		if retryWaitMin == 0 {
			retryWaitMin = 1 * time.Second
		}

		retryWaitMax := config.RetryWaitMax
		if retryWaitMax == 0 {
			retryWaitMax = 30 * time.Second
		}

		options = append(options, internalhttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return &Client{
		httpClient: internalhttp.NewClient(config.APIURL, tokenManager, options...),
		logger:     config.Logger,
		baseURL:    config.APIURL,
		query:      dataverse.NewQuery(),
	}, nil
}

// selectTokenCache picks the token cache backend: an explicit override
// wins, otherwise token caching uses an in-process memory cache, or no
// cache at all when disabled.
func selectTokenCache(config *dataverse.Config) (dataverse.Cache, error) {
	if config.TokenCache != nil {
		return config.TokenCache, nil
	}

	if !config.CacheToken {
		return dataverse.NewNoOpCache(), nil
	}

	return dataverse.NewCacheFromConfig(dataverse.DefaultCacheConfig())
}

// Query returns the current query for modification.
func (c *Client) Query() *dataverse.Query {
	return c.query
}

// Reset clears the current query and request headers.
func (c *Client) Reset() {
	c.query.Reset()
}

// CurrentQuery compiles the current query into the full request URL.
func (c *Client) CurrentQuery() string {
	return c.query.URL(c.baseURL)
}

// RequestCount reports how many Web API requests the client has made.
func (c *Client) RequestCount() int64 {
	return c.requestCounter.Load()
}

// Get executes the current query as a GET request.
func (c *Client) Get(ctx context.Context, options *dataverse.GetOptions) (*dataverse.GetResponse, error) {
	if options == nil {
		options = &dataverse.GetOptions{}
	}

	response, err := c.get(ctx, c.CurrentQuery(), options.NotFoundOK, options.Pagination)
	if err != nil && options.SimplifyErrors {
		return nil, dataverse.SimplifyError(err, options.RaiseSeparately...)
	}

	return response, err
}

func (c *Client) get(
	ctx context.Context,
	query string,
	notFoundOK bool,
	rules *dataverse.PaginationRules,
) (*dataverse.GetResponse, error) {
	resp, err := c.httpClient.Get(ctx, query, nil, c.mergedHeaders(nethttp.MethodGet))
	if err != nil {
		return nil, c.connectionError(nethttp.MethodGet, query, err)
	}

	response, err := c.processGetResponse(resp, query, notFoundOK)
	if err != nil {
		return nil, err
	}

	if rules != nil {
		if err := c.handlePagination(ctx, response, rules, notFoundOK); err != nil {
			return nil, err
		}
	}

	return response, nil
}

// Post executes the current query as a POST request creating a row.
func (c *Client) Post(
	ctx context.Context,
	data dataverse.Row,
	options *dataverse.PostOptions,
) (*dataverse.PostResponse, error) {
	if options == nil {
		options = &dataverse.PostOptions{}
	}

	query := c.CurrentQuery()

	resp, err := c.httpClient.Post(ctx, query, data, c.mergedHeaders(nethttp.MethodPost))
	if err != nil {
		err = c.connectionError(nethttp.MethodPost, query, err)
	} else {
		var response *dataverse.PostResponse
		if response, err = c.processPostResponse(resp, query); err == nil {
			return response, nil
		}
	}

	if options.SimplifyErrors {
		return nil, dataverse.SimplifyError(err, options.RaiseSeparately...)
	}

	return nil, err
}

// Patch executes the current query as a PATCH request updating a row.
func (c *Client) Patch(
	ctx context.Context,
	data dataverse.Row,
	options *dataverse.PatchOptions,
) (*dataverse.PatchResponse, error) {
	if options == nil {
		options = &dataverse.PatchOptions{}
	}

	query := c.CurrentQuery()

	resp, err := c.httpClient.Patch(ctx, query, data, c.mergedHeaders(nethttp.MethodPatch))
	if err != nil {
		err = c.connectionError(nethttp.MethodPatch, query, err)
	} else {
		var response *dataverse.PatchResponse
		if response, err = c.processPatchResponse(resp, query); err == nil {
			return response, nil
		}
	}

	if options.SimplifyErrors {
		return nil, dataverse.SimplifyError(err, options.RaiseSeparately...)
	}

	return nil, err
}

// Delete executes the current query as a DELETE request.
func (c *Client) Delete(ctx context.Context, options *dataverse.DeleteOptions) error {
	if options == nil {
		options = &dataverse.DeleteOptions{}
	}

	query := c.CurrentQuery()

	resp, err := c.httpClient.Delete(ctx, query, c.mergedHeaders(nethttp.MethodDelete))
	if err != nil {
		err = c.connectionError(nethttp.MethodDelete, query, err)
	} else {
		err = c.processDeleteResponse(resp, query)
	}

	if err != nil && options.SimplifyErrors {
		return dataverse.SimplifyError(err, options.RaiseSeparately...)
	}

	return err
}

// defaultHeaders returns the method default headers:
// https://docs.microsoft.com/en-us/powerapps/developer/data-platform/webapi/compose-http-requests-handle-errors
func (c *Client) defaultHeaders(method string) map[string]string {
	headers := map[string]string{
		"OData-MaxVersion": "4.0",
		"OData-Version":    "4.0",
	}

	switch method {
	case nethttp.MethodGet:
		headers["Accept"] = "application/json; odata.metadata=minimal"
		headers["Prefer"] = fmt.Sprintf("odata.maxpagesize=%d", c.query.Pagesize())
	case nethttp.MethodPost:
		headers["Accept"] = "application/json; odata.metadata=minimal"
		headers["Content-Type"] = "application/json; charset=utf-8"
		headers["Prefer"] = "return=representation"
		headers["MSCRM.SuppressDuplicateDetection"] = "false"
	case nethttp.MethodPatch:
		headers["Accept"] = "application/json; odata.metadata=minimal"
		headers["Content-Type"] = "application/json; charset=utf-8"
		headers["Prefer"] = "return=representation"
		headers["MSCRM.SuppressDuplicateDetection"] = "false"
		headers["If-None-Match"] = "null"
		headers["If-Match"] = "*"
	case nethttp.MethodDelete:
		headers["Content-Type"] = "application/json; charset=utf-8"
		headers["Accept"] = "application/json; odata.metadata=minimal"
		headers["Prefer"] = fmt.Sprintf("odata.maxpagesize=%d", c.query.Pagesize())
	}

	return headers
}

// mergedHeaders overlays the query's request headers on the method
// defaults, caller headers win.
func (c *Client) mergedHeaders(method string) map[string]string {
	headers := c.defaultHeaders(method)
	for name, value := range c.query.Headers() {
		headers[name] = value
	}

	return headers
}

// connectionError reports a request that never produced a Web API
// response.
func (c *Client) connectionError(method, query string, err error) error {
	c.warn("dataverse request failed", map[string]interface{}{
		"method": method,
		"query":  query,
		"error":  err.Error(),
	})

	return dataverse.NewAPIError(nethttp.StatusInternalServerError, err.Error(), "connection_error")
}

func (c *Client) warn(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}
