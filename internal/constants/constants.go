package constants

import "time"

// SODA API endpoint paths.
const (
	// CatalogPath is the discovery endpoint used to search a domain's catalog.
	CatalogPath = "/api/catalog/v1"

	// ResourcePath is the prefix for dataset row retrieval.
	ResourcePath = "/resource"

	// ViewsPath is the views prefix, used for dataset metadata retrieval and
	// attachment asset downloads.
	ViewsPath = "/api/views"

	// AssetsPath is the blob store prefix used for attachment blob downloads.
	AssetsPath = "/api/assets"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the per-request ceiling applied when the
	// configuration does not set one.
	DefaultHTTPTimeout = 10 * time.Second
)

// Retry limits for the underlying retryablehttp client.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum backoff between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum backoff between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// File and directory permissions.
const (
	// DownloadDirPerm is the permission for created download directories.
	DownloadDirPerm = 0750

	// DownloadFilePerm is the permission for written attachment files.
	DownloadFilePerm = 0600

	// ConfigDirPerm is the permission for the CLI configuration directory.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for the CLI configuration file.
	ConfigFilePerm = 0600
)

// Request headers.
const (
	// AppTokenHeader carries the application token.
	AppTokenHeader = "X-App-Token"

	// UserAgentPrefix is combined with the library version for the default
	// User-Agent header.
	UserAgentPrefix = "soda-go"
)
