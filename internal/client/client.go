// Package client implements the SODA API operations on top of the internal
// HTTP transport. It is the concrete soda.Client; consumers construct it
// through the sodaclient package.
package client

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/fivetwenty-io/soda/internal/auth"
	"github.com/fivetwenty-io/soda/internal/constants"
	internalhttp "github.com/fivetwenty-io/soda/internal/http"
	"github.com/fivetwenty-io/soda/pkg/soda"
)

// Client is the concrete SODA API client.
type Client struct {
	httpClient *internalhttp.Client
	// domain is the bare host, sent as the domains filter on catalog searches.
	domain string
	logger soda.Logger
}

// Interface compliance checks.
var (
	_ soda.Client    = (*Client)(nil)
	_ soda.RowLister = (*Client)(nil)
)

// New creates a new client from a configuration. The domain may be given
// bare ("data.cityofchicago.org") or as a URL; bare domains get https.
func New(config *soda.Config) (*Client, error) {
	if config == nil {
		return nil, soda.ErrConfigRequired
	}

	if config.Domain == "" {
		return nil, soda.ErrDomainRequired
	}

	if config.Timeout < 0 {
		return nil, soda.ErrInvalidTimeout
	}

	credentials := credentialsFromConfig(config)
	if err := credentials.Validate(); err != nil {
		return nil, err
	}

	baseURL, domain := normalizeDomain(config.Domain)

	httpClient := internalhttp.NewClient(baseURL, credentials, httpOptions(config)...)

	return &Client{
		httpClient: httpClient,
		domain:     domain,
		logger:     config.Logger,
	}, nil
}

// httpOptions translates the configuration into transport options.
func httpOptions(config *soda.Config) []internalhttp.Option {
	var opts []internalhttp.Option

	if config.Logger != nil {
		opts = append(opts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.Timeout > 0 {
		opts = append(opts, internalhttp.WithTimeout(config.Timeout))
	}

	if config.RetryMax > 0 {
		waitMin := config.RetryWaitMin
		if waitMin <= 0 {
			waitMin = constants.DefaultRetryWaitMin
		}

		waitMax := config.RetryWaitMax
		if waitMax <= 0 {
			waitMax = constants.DefaultRetryWaitMax
		}

		opts = append(opts, internalhttp.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	if config.Interceptors != nil {
		opts = append(opts, internalhttp.WithInterceptors(config.Interceptors))
	}

	return opts
}

// credentialsFromConfig extracts the credential fields, or nil when the
// configuration carries none.
func credentialsFromConfig(config *soda.Config) *auth.Credentials {
	if config.AppToken == "" && config.Username == "" && config.Password == "" && config.AccessToken == "" {
		return nil
	}

	return &auth.Credentials{
		AppToken:    config.AppToken,
		Username:    config.Username,
		Password:    config.Password,
		AccessToken: config.AccessToken,
	}
}

// normalizeDomain splits a domain setting into the request base URL and the
// bare host. Trailing slashes are dropped; a missing scheme defaults to
// https.
func normalizeDomain(raw string) (baseURL, domain string) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")

	if idx := strings.Index(trimmed, "://"); idx >= 0 {
		return trimmed, trimmed[idx+len("://"):]
	}

	return "https://" + trimmed, trimmed
}

// Domain returns the bare domain the client talks to.
func (c *Client) Domain() string {
	return c.domain
}

// Close releases the underlying transport. It is idempotent; operations
// after Close fail fast with soda.ErrClientClosed.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

// info logs at info level when a logger is configured.
func (c *Client) info(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Info(msg, fields)
	}
}

// decodeJSON unmarshals a response body, mapping failures to DecodeError.
func decodeJSON(resp *internalhttp.Response, target interface{}) error {
	if err := json.Unmarshal(resp.Body, target); err != nil {
		return &soda.DecodeError{URL: resp.URL, Format: soda.FormatJSON, Err: err}
	}

	return nil
}

// NewTestClient creates a client against a test server, bypassing the
// configuration checks. Used by tests only.
func NewTestClient(baseURL string) *Client {
	_, domain := normalizeDomain(baseURL)

	return &Client{
		httpClient: internalhttp.NewClient(baseURL, nil,
			internalhttp.WithRetryConfig(0, time.Millisecond, time.Millisecond)),
		domain: domain,
	}
}
