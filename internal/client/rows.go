package client

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/soda/internal/constants"
	internalhttp "github.com/fivetwenty-io/soda/internal/http"
	"github.com/fivetwenty-io/soda/pkg/soda"
)

// Get reads rows from a dataset. The identifier may embed a row id
// ("abcd-1234/193"), in which case the result is that single row in a
// one-element slice.
func (c *Client) Get(ctx context.Context, identifier string, query *soda.Query) ([]soda.Row, error) {
	id, err := soda.ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	resp, err := c.fetchResource(ctx, id, soda.FormatJSON, query)
	if err != nil {
		return nil, err
	}

	if id.HasRow() {
		var row soda.Row
		if err := decodeJSON(resp, &row); err != nil {
			return nil, err
		}

		return []soda.Row{row}, nil
	}

	var rows []soda.Row
	if err := decodeJSON(resp, &rows); err != nil {
		return nil, err
	}

	return rows, nil
}

// GetRow reads a single row by its row id. The identifier must embed the row
// id ("abcd-1234/193").
func (c *Client) GetRow(ctx context.Context, identifier string, query *soda.Query) (soda.Row, error) {
	id, err := soda.ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	if !id.HasRow() {
		return nil, fmt.Errorf("%w: %q", soda.ErrRowIdentifierRequired, identifier)
	}

	resp, err := c.fetchResource(ctx, id, soda.FormatJSON, query)
	if err != nil {
		return nil, err
	}

	var row soda.Row
	if err := decodeJSON(resp, &row); err != nil {
		return nil, err
	}

	return row, nil
}

// GetAll returns an iterator over every row matching the query, fetching
// pages lazily as the iterator advances. The query's Limit is the page size
// (soda.DefaultLimit when unset) and its Offset the starting position.
func (c *Client) GetAll(ctx context.Context, identifier string, query *soda.Query) *soda.RowIterator {
	return soda.NewRowIterator(ctx, c, identifier, query)
}

// GetCSV reads rows in CSV representation. The first record is the header
// row.
func (c *Client) GetCSV(ctx context.Context, identifier string, query *soda.Query) ([][]string, error) {
	id, err := soda.ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	resp, err := c.fetchResource(ctx, id, soda.FormatCSV, query)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(resp.Body))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &soda.DecodeError{URL: resp.URL, Format: soda.FormatCSV, Err: err}
	}

	return records, nil
}

// GetRaw reads rows in the given format and returns the body undecoded, for
// representations the client does not parse (RDF/XML among them).
func (c *Client) GetRaw(ctx context.Context, identifier string, format soda.Format, query *soda.Query) ([]byte, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", soda.ErrUnknownFormat, format)
	}

	id, err := soda.ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	resp, err := c.fetchResource(ctx, id, format, query)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// fetchResource performs the GET against /resource for an identifier in the
// given format, with the query's SoQL parameters attached.
func (c *Client) fetchResource(ctx context.Context, id soda.Identifier, format soda.Format, query *soda.Query) (*internalhttp.Response, error) {
	resp, err := c.httpClient.Do(ctx, &internalhttp.Request{
		Method: http.MethodGet,
		Path:   resourcePath(id, format),
		Query:  query.ToValues(),
		Accept: format.MIMEType(),
	})
	if err != nil {
		return nil, fmt.Errorf("getting rows: %w", err)
	}

	return resp, nil
}

// resourcePath builds /resource/{id}.{ext}, or /resource/{id}/{row}.{ext}
// when the identifier embeds a row id.
func resourcePath(id soda.Identifier, format soda.Format) string {
	if id.HasRow() {
		return constants.ResourcePath + "/" + id.Dataset + "/" + id.Row + "." + format.Extension()
	}

	return constants.ResourcePath + "/" + id.Dataset + "." + format.Extension()
}
