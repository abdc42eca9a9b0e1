package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/soda/internal/constants"
	"github.com/fivetwenty-io/soda/pkg/soda"
)

// GetMetadata retrieves the metadata document for a dataset. Metadata is
// dataset level; a row id embedded in the identifier is ignored.
func (c *Client) GetMetadata(ctx context.Context, identifier string) (soda.Metadata, error) {
	id, err := soda.ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	path := constants.ViewsPath + "/" + id.Dataset + "." + soda.FormatJSON.Extension()

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting metadata: %w", err)
	}

	var metadata soda.Metadata
	if err := decodeJSON(resp, &metadata); err != nil {
		return nil, err
	}

	return metadata, nil
}
