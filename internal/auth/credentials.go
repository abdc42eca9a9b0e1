// Package auth applies Socrata request credentials.
package auth

import (
	"net/http"

	"github.com/fivetwenty-io/soda/internal/constants"
	"github.com/fivetwenty-io/soda/pkg/soda"
)

// Credentials holds the optional authentication material for a session. All
// fields may be empty; most published datasets are readable anonymously.
type Credentials struct {
	// AppToken is sent as X-App-Token on every request.
	AppToken string
	// Username and Password form the HTTP basic auth pair.
	Username string
	Password string
	// AccessToken is an OAuth 2.0 bearer token.
	AccessToken string
}

// Validate enforces that only one form of authentication is used: basic auth
// requires both username and password, and cannot be combined with an OAuth
// access token. The app token is not an authentication mechanism and combines
// with either.
func (c *Credentials) Validate() error {
	if c == nil {
		return nil
	}

	if (c.Username != "") != (c.Password != "") {
		return soda.ErrCredentialsIncomplete
	}

	if (c.Username != "" || c.Password != "") && c.AccessToken != "" {
		return soda.ErrConflictingCredentials
	}

	return nil
}

// Apply sets the authentication headers on a request.
func (c *Credentials) Apply(req *http.Request) {
	if c == nil {
		return
	}

	if c.AppToken != "" {
		req.Header.Set(constants.AppTokenHeader, c.AppToken)
	}

	switch {
	case c.Username != "" && c.Password != "":
		req.SetBasicAuth(c.Username, c.Password)
	case c.AccessToken != "":
		req.Header.Set("Authorization", "OAuth "+c.AccessToken)
	}
}
