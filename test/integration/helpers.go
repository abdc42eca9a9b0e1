//go:build integration
// +build integration

package integration

import (
	"os"
	"testing"

	"github.com/fivetwenty-io/soda/pkg/soda"
	"github.com/fivetwenty-io/soda/pkg/sodaclient"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	Domain   string
	AppToken string
	Dataset  string
	Verbose  bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Domain:   os.Getenv("SODA_INTEGRATION_DOMAIN"),
		AppToken: os.Getenv("SODA_INTEGRATION_APP_TOKEN"),
		Dataset:  os.Getenv("SODA_INTEGRATION_DATASET"),
		Verbose:  os.Getenv("SODA_INTEGRATION_VERBOSE") == "true",
	}
}

// SkipIfMissingConfig skips the test unless a live domain is configured
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	if config.Domain == "" {
		t.Skip("SODA_INTEGRATION_DOMAIN not set, skipping integration test")
	}
}

// SkipIfMissingDataset skips tests that need a known dataset on the domain
func (config *TestConfig) SkipIfMissingDataset(t *testing.T) {
	config.SkipIfMissingConfig(t)

	if config.Dataset == "" {
		t.Skip("SODA_INTEGRATION_DATASET not set, skipping integration test")
	}
}

// NewClient builds a client against the configured live domain
func (config *TestConfig) NewClient(t *testing.T) soda.Client {
	t.Helper()

	client, err := sodaclient.New(&soda.Config{
		Domain:   config.Domain,
		AppToken: config.AppToken,
		Debug:    config.Verbose,
	})
	if err != nil {
		t.Fatalf("failed to create client for %s: %v", config.Domain, err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}
