// Package sodaclient provides the main entry point for creating SODA API clients
package sodaclient

import (
	"fmt"

	"github.com/fivetwenty-io/soda/internal/client"
	"github.com/fivetwenty-io/soda/pkg/soda"
)

// New creates a new SODA API client for a domain.
func New(config *soda.Config) (soda.Client, error) {
	if config == nil {
		return nil, soda.ErrConfigRequired
	}

	if config.Domain == "" {
		return nil, soda.ErrDomainRequired
	}

	if config.AppToken == "" && config.Logger != nil {
		config.Logger.Warn("Requests made without an app token will be subject to strict throttling limits", nil)
	}

	client, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return client, nil
}

// NewWithAppToken creates a new client with a domain and application token.
func NewWithAppToken(domain, appToken string) (soda.Client, error) {
	return New(&soda.Config{
		Domain:   domain,
		AppToken: appToken,
	})
}

// NewWithBasicAuth creates a new client using basic HTTP authentication for
// restricted resources. The app token may be empty.
func NewWithBasicAuth(domain, appToken, username, password string) (soda.Client, error) {
	return New(&soda.Config{
		Domain:   domain,
		AppToken: appToken,
		Username: username,
		Password: password,
	})
}

// NewWithOAuthToken creates a new client using an OAuth 2.0 access token.
func NewWithOAuthToken(domain, accessToken string) (soda.Client, error) {
	return New(&soda.Config{
		Domain:      domain,
		AccessToken: accessToken,
	})
}
