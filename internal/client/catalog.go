package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/soda/internal/constants"
	"github.com/fivetwenty-io/soda/pkg/soda"
)

// Datasets searches the domain's catalog and returns the matching dataset
// descriptors. A zero Limit fetches the complete result set, paging as many
// times as it takes; a positive Limit returns at most that many descriptors
// in a single request.
func (c *Client) Datasets(ctx context.Context, query *soda.CatalogQuery) ([]soda.DatasetDescriptor, error) {
	values := c.catalogValues(query)

	page, err := c.fetchCatalogPage(ctx, values)
	if err != nil {
		return nil, err
	}

	var limit, offset int
	if query != nil {
		limit, offset = query.Limit, query.Offset
	}

	total := page.ResultSetSize

	// A single page settles it when the limit covers the whole set, the page
	// holds exactly the requested cut, or the page holds the whole set.
	if limit >= total || limit == len(page.Results) || total == len(page.Results) {
		return page.Results, nil
	}

	if limit != 0 {
		return nil, fmt.Errorf("%w: expected %d, got %d",
			soda.ErrCatalogCountMismatch, limit, len(page.Results))
	}

	all := page.Results

	for len(all) != total {
		if len(page.Results) == 0 {
			// The server reported more results than it is willing to serve.
			return nil, fmt.Errorf("%w: expected %d, got %d",
				soda.ErrCatalogCountMismatch, total, len(all))
		}

		offset += len(page.Results)
		values.Set("offset", strconv.Itoa(offset))

		page, err = c.fetchCatalogPage(ctx, values)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Results...)
	}

	return all, nil
}

// DatasetsPage performs a single catalog search and returns the raw page,
// including the total result set size, for callers that page themselves.
func (c *Client) DatasetsPage(ctx context.Context, query *soda.CatalogQuery) (*soda.CatalogPage, error) {
	return c.fetchCatalogPage(ctx, c.catalogValues(query))
}

// catalogValues builds the search parameters. The client's own domain always
// leads the domains filter; additional domains from the query follow it.
func (c *Client) catalogValues(query *soda.CatalogQuery) url.Values {
	values := query.ToValues()
	values["domains"] = append([]string{c.domain}, values["domains"]...)

	return values
}

func (c *Client) fetchCatalogPage(ctx context.Context, values url.Values) (*soda.CatalogPage, error) {
	resp, err := c.httpClient.Get(ctx, constants.CatalogPath, values)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}

	var page soda.CatalogPage
	if err := decodeJSON(resp, &page); err != nil {
		return nil, err
	}

	return &page, nil
}
