//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/soda/pkg/soda"
)

// TestCatalog_Discovery lists the live domain's catalog both page by page
// and through the full listing.
func TestCatalog_Discovery(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// A raw page reports the domain's total alongside the results.
	page, err := client.DatasetsPage(ctx, soda.NewCatalogQuery().WithLimit(5))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(page.Results), 5)
	assert.GreaterOrEqual(t, page.ResultSetSize, len(page.Results))

	if page.ResultSetSize > 100 {
		t.Skipf("domain publishes %d datasets, skipping full listing", page.ResultSetSize)
	}

	// The full listing must agree with the advertised total.
	results, err := client.Datasets(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, results, page.ResultSetSize)
}

// TestRows_Paging checks that the lazy iterator sees the same rows as
// manual offset paging.
func TestRows_Paging(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingDataset(t)

	client := config.NewClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	const pageSize = 10

	var paged []soda.Row

	for offset := 0; len(paged) < 3*pageSize; offset += pageSize {
		page, err := client.Get(ctx, config.Dataset,
			soda.NewQuery().WithLimit(pageSize).WithOffset(offset))
		require.NoError(t, err)

		paged = append(paged, page...)

		if len(page) < pageSize {
			break
		}
	}

	require.NotEmpty(t, paged, "dataset %s returned no rows", config.Dataset)

	var collected []soda.Row

	iterator := client.GetAll(ctx, config.Dataset, soda.NewQuery().WithLimit(pageSize))
	for iterator.HasNext() && len(collected) < len(paged) {
		row, err := iterator.Next()
		require.NoError(t, err)

		collected = append(collected, row)
	}

	assert.Equal(t, paged, collected)
}

// TestMetadata_Document fetches the dataset's metadata and its attachments.
func TestMetadata_Document(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingDataset(t)

	client := config.NewClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	metadata, err := client.GetMetadata(ctx, config.Dataset)
	require.NoError(t, err)
	assert.NotEmpty(t, metadata["id"])
	assert.NotEmpty(t, metadata["name"])

	for _, attachment := range metadata.Attachments() {
		assert.NotEmpty(t, attachment.Filename)
	}
}

// TestAttachments_Download pulls the dataset's attachments into a temp dir.
func TestAttachments_Download(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingDataset(t)

	client := config.NewClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	files, err := client.DownloadAttachments(ctx, config.Dataset, t.TempDir())
	require.NoError(t, err)

	for _, file := range files {
		assert.FileExists(t, file)
	}
}

// TestClient_Lifecycle verifies close is idempotent and operations fail
// fast afterwards.
func TestClient_Lifecycle(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, err := client.DatasetsPage(ctx, soda.NewCatalogQuery().WithLimit(1))
	require.NoError(t, err)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, err = client.DatasetsPage(ctx, soda.NewCatalogQuery().WithLimit(1))
	require.ErrorIs(t, err, soda.ErrClientClosed)
}
