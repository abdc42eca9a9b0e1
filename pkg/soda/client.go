package soda

import (
	"context"
	"time"
)

// CatalogClient provides access to the dataset discovery endpoint.
type CatalogClient interface {
	// Datasets searches the catalog of the client's domain. A nil query or a
	// query with Limit 0 returns every dataset the domain publishes; a
	// positive Limit returns at most that many descriptors.
	Datasets(ctx context.Context, query *CatalogQuery) ([]DatasetDescriptor, error)

	// DatasetsPage performs a single catalog request and returns the raw
	// page, including the server's total result set size.
	DatasetsPage(ctx context.Context, query *CatalogQuery) (*CatalogPage, error)
}

// RowsClient provides access to dataset resources.
type RowsClient interface {
	// Get retrieves rows from a dataset as JSON. When the identifier embeds
	// a row id ("abcd-1234/193") the single row is returned as a one-element
	// slice.
	Get(ctx context.Context, identifier string, query *Query) ([]Row, error)

	// GetRow retrieves one row by its row identifier ("abcd-1234/193").
	GetRow(ctx context.Context, identifier string, query *Query) (Row, error)

	// GetAll returns a lazy iterator over every row matching the query,
	// fetching pages on demand. Query.Limit sets the page size.
	GetAll(ctx context.Context, identifier string, query *Query) *RowIterator

	// GetCSV retrieves rows in CSV form, decoded into records. The first
	// record holds the column names.
	GetCSV(ctx context.Context, identifier string, query *Query) ([][]string, error)

	// GetRaw retrieves the undecoded response body in the given format.
	GetRaw(ctx context.Context, identifier string, format Format, query *Query) ([]byte, error)
}

// MetadataClient provides access to dataset metadata.
type MetadataClient interface {
	// GetMetadata retrieves the metadata document for a dataset.
	GetMetadata(ctx context.Context, identifier string) (Metadata, error)
}

// AttachmentsClient downloads the files attached to a dataset.
type AttachmentsClient interface {
	// DownloadAttachments downloads every attachment listed in the dataset's
	// metadata into downloadDir/<dataset id>/ and returns the local paths. A
	// leading "~" in downloadDir is expanded. Returns the paths written so
	// far together with the error when a download fails.
	DownloadAttachments(ctx context.Context, identifier, downloadDir string) ([]string, error)
}

// Client is the read-only SODA API client. Implementations issue one
// blocking request at a time and perform no internal locking; concurrent use
// requires external synchronization.
type Client interface {
	CatalogClient
	RowsClient
	MetadataClient
	AttachmentsClient

	// Domain returns the normalized domain the client talks to.
	Domain() string

	// Close releases the client's transport. It is idempotent; operations
	// after Close fail fast with ErrClientClosed.
	Close() error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a soda.Client.
//
// # Authentication
//
// All credentials are optional; most published datasets are readable
// anonymously. An AppToken lifts the strict anonymous throttling limits and
// should be set for anything beyond casual use. Username/Password (a pair,
// both or neither) and AccessToken (OAuth 2.0 bearer) authenticate requests
// against restricted resources; the two mechanisms are mutually exclusive.
//
// # Timeouts and retries
//
// Timeout bounds each individual HTTP request, not a whole operation: a call
// that pages through a large dataset may run much longer than Timeout while
// never letting a single request exceed it. Retry behavior belongs to the
// underlying HTTP client and is tuned via RetryMax/RetryWaitMin/RetryWaitMax.
type Config struct {
	// Domain is the Socrata domain to read from (e.g. "data.cityofchicago.org").
	// sodaclient.New normalizes this value by trimming a trailing slash and
	// adding "https://" if no scheme is present.
	Domain string

	// AppToken is the application token sent as X-App-Token. Optional, but
	// requests without one are subject to strict throttling limits.
	AppToken string
	// Username for HTTP basic auth; requires Password.
	Username string
	// Password for HTTP basic auth; requires Username.
	Password string
	// AccessToken is an OAuth 2.0 bearer token, mutually exclusive with
	// Username/Password.
	AccessToken string

	// Timeout bounds each HTTP request. Defaults to 10 seconds.
	Timeout time.Duration
	// RetryMax: maximum number of retries for transient failures (>=500, 429,
	// and connection errors). If 0, a sensible default is used by the client.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header sent by the client.
	UserAgent string
	// Interceptors run around every HTTP request the client makes.
	Interceptors *InterceptorChain
}
