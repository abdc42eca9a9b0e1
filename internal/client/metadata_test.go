package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/soda/internal/client"
	"github.com/fivetwenty-io/soda/pkg/soda"
)

const metadataDocument = `{
	"id": "nimj-3ivp",
	"name": "Earthquakes",
	"description": "Worldwide earthquake data",
	"metadata": {
		"attachments": [
			{"filename": "readme.pdf", "assetId": "abc-123"}
		]
	}
}`

func TestClient_GetMetadata(t *testing.T) {
	t.Parallel()
	t.Run("returns the metadata document", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/views/nimj-3ivp.json", request.URL.Path)

			_, _ = writer.Write([]byte(metadataDocument))
		}))
		defer server.Close()

		c := client.NewTestClient(server.URL)

		metadata, err := c.GetMetadata(context.Background(), "nimj-3ivp")
		require.NoError(t, err)
		assert.Equal(t, "Earthquakes", metadata["name"])

		attachments := metadata.Attachments()
		require.Len(t, attachments, 1)
		assert.Equal(t, "readme.pdf", attachments[0].Filename)
		assert.Equal(t, "abc-123", attachments[0].AssetID)
	})

	t.Run("row id in the identifier is ignored", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/views/nimj-3ivp.json", request.URL.Path)

			_, _ = writer.Write([]byte(`{"id": "nimj-3ivp"}`))
		}))
		defer server.Close()

		c := client.NewTestClient(server.URL)

		metadata, err := c.GetMetadata(context.Background(), "nimj-3ivp/193")
		require.NoError(t, err)
		assert.Equal(t, "nimj-3ivp", metadata["id"])
	})

	t.Run("not found maps to APIError", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		c := client.NewTestClient(server.URL)

		_, err := c.GetMetadata(context.Background(), "miss-ingg")
		assert.True(t, soda.IsNotFound(err))
	})
}
