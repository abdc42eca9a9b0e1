// Package http provides the HTTP transport for the SODA client, wrapping
// hashicorp/go-retryablehttp with credential handling, interceptors, and the
// Socrata error mapping.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/soda/internal/auth"
	"github.com/fivetwenty-io/soda/internal/constants"
	"github.com/fivetwenty-io/soda/pkg/soda"
)

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	// Accept overrides the Accept header, selecting the response format.
	Accept string
}

// Response represents a buffered API response. URL is the full request URL,
// kept for error reporting.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	URL        string
}

// StreamResponse represents an API response whose body is streamed to the
// caller. The caller owns Body and must close it.
type StreamResponse struct {
	StatusCode int
	Headers    http.Header
	Body       io.ReadCloser
}

// Client is an HTTP client for the SODA API.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	credentials  *auth.Credentials
	userAgent    string
	logger       soda.Logger
	debug        bool
	interceptors *soda.InterceptorChain
	closed       atomic.Bool
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger soda.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithTimeout sets the per-request timeout. Each retry attempt gets the full
// timeout; a paging operation spanning many requests is not bounded by it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithRetryConfig tunes the underlying retry policy.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithInterceptors sets the interceptor chain run around every request.
func WithInterceptors(chain *soda.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a new SODA HTTP client. baseURL carries the scheme and
// domain; credentials may be nil for anonymous access.
func NewClient(baseURL string, credentials *auth.Credentials, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.Logger = nil
	// Exhausted retries must surface the last response so error statuses map
	// to APIError rather than a transport failure.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	client := &Client{
		baseURL:     baseURL,
		httpClient:  retryClient,
		credentials: credentials,
		userAgent:   fmt.Sprintf("%s/%s", constants.UserAgentPrefix, soda.Version),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.debug && client.logger != nil {
		retryClient.Logger = &leveledLogger{logger: client.logger}
	}

	return client
}

// Do performs a request and buffers the response body. Statuses other than
// 200 and 202 return the response together with a *soda.APIError; network
// failures return a *soda.TransportError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, fullURL, err := c.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &soda.TransportError{URL: fullURL, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &soda.TransportError{URL: fullURL, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": httpResp.StatusCode,
		})
	}

	response := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
		URL:        fullURL,
	}

	var apiErr error
	if !isAccepted(httpResp.StatusCode) {
		apiErr = soda.NewAPIError(httpResp.StatusCode, httpResp.Status, fullURL, body)
	}

	if err := c.runResponseInterceptors(ctx, req, response, apiErr); err != nil {
		return response, err
	}

	if apiErr != nil {
		return response, apiErr
	}

	return response, nil
}

// Get performs a GET request against a path.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// DoStream performs a request and hands the body to the caller unread, for
// downloads too large to buffer. Error statuses are drained and mapped the
// same way Do maps them.
func (c *Client) DoStream(ctx context.Context, req *Request) (*StreamResponse, error) {
	httpReq, fullURL, err := c.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &soda.TransportError{URL: fullURL, Err: err}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": httpResp.StatusCode,
		})
	}

	if !isAccepted(httpResp.StatusCode) {
		body, readErr := io.ReadAll(httpResp.Body)
		_ = httpResp.Body.Close()

		if readErr != nil {
			body = nil
		}

		apiErr := soda.NewAPIError(httpResp.StatusCode, httpResp.Status, fullURL, body)
		if err := c.runResponseInterceptors(ctx, req, &Response{
			StatusCode: httpResp.StatusCode,
			Headers:    httpResp.Header,
			Body:       body,
		}, apiErr); err != nil {
			return nil, err
		}

		return nil, apiErr
	}

	if err := c.runResponseInterceptors(ctx, req, &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
	}, nil); err != nil {
		_ = httpResp.Body.Close()

		return nil, err
	}

	return &StreamResponse{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       httpResp.Body,
	}, nil
}

// Close releases the transport. It is idempotent; requests after Close fail
// fast with soda.ErrClientClosed.
func (c *Client) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.httpClient.HTTPClient.CloseIdleConnections()
	}

	return nil
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// prepare builds the outgoing request: URL assembly, interceptor chain,
// headers, credentials.
func (c *Client) prepare(ctx context.Context, req *Request) (*retryablehttp.Request, string, error) {
	if c.closed.Load() {
		return nil, "", soda.ErrClientClosed
	}

	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	view := &soda.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: make(http.Header),
	}

	for key, value := range req.Headers {
		view.Headers.Set(key, value)
	}

	if c.interceptors != nil {
		if err := c.interceptors.ExecuteRequestInterceptors(ctx, view); err != nil {
			return nil, "", err
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Accept != "" {
		httpReq.Header.Set("Accept", req.Accept)
	}

	for key, values := range view.Headers {
		for _, value := range values {
			httpReq.Header.Set(key, value)
		}
	}

	c.credentials.Apply(httpReq.Request)

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	return httpReq, fullURL, nil
}

// runResponseInterceptors feeds the response through the chain.
func (c *Client) runResponseInterceptors(ctx context.Context, req *Request, resp *Response, respErr error) error {
	if c.interceptors == nil {
		return nil
	}

	view := &soda.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Error:      respErr,
	}

	return c.interceptors.ExecuteResponseInterceptors(ctx, &soda.Request{
		Method: req.Method,
		Path:   req.Path,
	}, view)
}

// isAccepted reports whether the API status is a success. The API signals
// success with 200 and, for asynchronous operations, 202.
func isAccepted(statusCode int) bool {
	return statusCode == http.StatusOK || statusCode == http.StatusAccepted
}

// leveledLogger adapts soda.Logger to the retry transport's logger.
type leveledLogger struct {
	logger soda.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, logFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, logFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, logFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, logFields(keysAndValues))
}

func logFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}

		fields[key] = keysAndValues[i+1]
	}

	return fields
}
