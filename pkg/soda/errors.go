package soda

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Static errors for client construction and use.
var (
	ErrConfigRequired         = errors.New("config is required")
	ErrDomainRequired         = errors.New("a domain is required")
	ErrInvalidTimeout         = errors.New("timeout must not be negative")
	ErrCredentialsIncomplete  = errors.New("username and password must be provided together")
	ErrConflictingCredentials = errors.New("basic auth credentials and an OAuth access token are mutually exclusive")
	ErrUnknownFormat          = errors.New("unknown content type")
	ErrIdentifierRequired     = errors.New("a dataset identifier is required")
	ErrIdentifierMalformed    = errors.New("malformed dataset identifier")
	ErrRowIdentifierRequired  = errors.New("identifier does not embed a row id")
	ErrClientClosed           = errors.New("client is closed")
	ErrNoMoreRows             = errors.New("no more rows")
)

// Static errors surfaced by catalog and attachment operations.
var (
	ErrCatalogCountMismatch = errors.New("unexpected number of catalog results returned")
	ErrAttachmentNoAsset    = errors.New("attachment has neither an asset id nor a blob id")
	ErrAttachmentEmptyName  = errors.New("attachment has an empty filename")
	ErrUnsafeAttachmentName = errors.New("attachment filename contains a path separator or traversal component")
)

// APIError is a non-success response from the API. It carries the HTTP status,
// the attempted URL, the raw body, and the fields of the Socrata error
// envelope when the body parses as one:
//
//	{
//	  "code": "query.compiler.malformed",
//	  "error": true,
//	  "message": "Could not parse SoQL query ...",
//	  "data": {"query": "..."}
//	}
//
// Not all fields are present in every response.
type APIError struct {
	StatusCode int
	Status     string
	URL        string
	Body       []byte

	Code    string
	Message string
	Data    map[string]interface{}
}

// NewAPIError builds an APIError from a response, parsing the Socrata error
// envelope out of the body when possible.
func NewAPIError(statusCode int, status, url string, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Status:     status,
		URL:        url,
		Body:       body,
	}

	var envelope struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Message
		apiErr.Data = envelope.Data
	}

	return apiErr
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var class string

	switch {
	case e.StatusCode >= 400 && e.StatusCode < 500:
		class = "client error"
	case e.StatusCode >= 500 && e.StatusCode < 600:
		class = "server error"
	default:
		class = "unexpected status"
	}

	msg := fmt.Sprintf("%s %d: %s", class, e.StatusCode, e.Status)
	if e.URL != "" {
		msg += " for " + e.URL
	}

	if e.Code != "" || e.Message != "" {
		msg += fmt.Sprintf(" (%s: %s)", e.Code, e.Message)
	}

	return msg
}

// DecodeError is a response body that does not match the requested content
// type.
type DecodeError struct {
	URL    string
	Format Format
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s response from %s: %v", e.Format, e.URL, e.Err)
}

// Unwrap returns the underlying decode failure.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TransportError is a network-level failure (timeout, refused connection,
// DNS failure) as opposed to an error status returned by the server.
type TransportError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport failure, so checks like
// errors.Is(err, context.DeadlineExceeded) keep working.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if the error is a not-found response.
func IsNotFound(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsThrottled checks if the error is a rate-limiting response. Requests made
// without an application token are throttled aggressively.
func IsThrottled(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}
