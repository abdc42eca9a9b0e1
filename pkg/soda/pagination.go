package soda

import "context"

// DefaultLimit is the page size the API applies when no $limit is sent, and
// the page size RowIterator uses between fetches when Query.Limit is unset.
// See https://dev.socrata.com/docs/paging.html
const DefaultLimit = 1000

// RowLister fetches one page of rows. Client satisfies it through Get.
type RowLister interface {
	Get(ctx context.Context, identifier string, query *Query) ([]Row, error)
}

// PaginationOptions configures bulk fetching.
type PaginationOptions struct {
	// PageSize overrides the query's Limit as the per-request page size.
	PageSize int
	// MaxPages caps the number of pages fetched (0 = no cap).
	MaxPages int
}

// RowIterator iterates over every row matching a query, fetching pages of
// PageSize rows on demand. A page shorter than the page size marks the end of
// the data. The iterator is forward-only and cannot be restarted; a fetch
// error latches and every later call returns it. Not safe for concurrent use.
type RowIterator struct {
	ctx        context.Context
	lister     RowLister
	identifier string
	query      *Query
	pageSize   int

	buffer   []Row
	index    int
	lastPage bool
	fetched  bool
	err      error
}

// NewRowIterator creates an iterator over the rows of a dataset. The query is
// copied, so adjusting it afterwards does not affect the iteration. The
// query's Offset is the starting position; its Limit is the page size
// (DefaultLimit when unset).
func NewRowIterator(ctx context.Context, lister RowLister, identifier string, query *Query) *RowIterator {
	copied := query.clone()

	pageSize := copied.Limit
	if pageSize <= 0 {
		pageSize = DefaultLimit
	}

	return &RowIterator{
		ctx:        ctx,
		lister:     lister,
		identifier: identifier,
		query:      copied,
		pageSize:   pageSize,
	}
}

// fill fetches the next page once the buffered rows are consumed.
func (it *RowIterator) fill() {
	if it.err != nil || it.index < len(it.buffer) {
		return
	}

	if it.fetched && it.lastPage {
		return
	}

	rows, err := it.lister.Get(it.ctx, it.identifier, it.query)
	it.fetched = true

	if err != nil {
		it.err = err

		return
	}

	it.buffer = rows
	it.index = 0

	if len(rows) < it.pageSize {
		it.lastPage = true
	}

	it.query.Offset += it.pageSize
}

// HasNext returns true if there are more rows to iterate over. It also
// returns true when a fetch has failed, so that the error is observed through
// the following Next call rather than silently ending the iteration.
func (it *RowIterator) HasNext() bool {
	it.fill()

	return it.err != nil || it.index < len(it.buffer)
}

// Next returns the next row. After the last row it returns ErrNoMoreRows;
// after a failed fetch it returns the fetch error.
func (it *RowIterator) Next() (Row, error) {
	it.fill()

	if it.err != nil {
		return nil, it.err
	}

	if it.index >= len(it.buffer) {
		return nil, ErrNoMoreRows
	}

	row := it.buffer[it.index]
	it.index++

	return row, nil
}

// ForEach applies a function to each remaining row. Iteration stops at the
// first error, either from a fetch or from the function itself.
func (it *RowIterator) ForEach(callback func(Row) error) error {
	for it.HasNext() {
		row, err := it.Next()
		if err != nil {
			return err
		}

		if err := callback(row); err != nil {
			return err
		}
	}

	return nil
}

// All collects every remaining row into a slice. It buffers the full result
// set in memory; prefer ForEach for large datasets.
func (it *RowIterator) All() ([]Row, error) {
	var rows []Row

	err := it.ForEach(func(row Row) error {
		rows = append(rows, row)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// FetchAllRows fetches every row matching the query in one call, paging
// through the dataset with the options' page size.
func FetchAllRows(ctx context.Context, lister RowLister, identifier string, query *Query, options *PaginationOptions) ([]Row, error) {
	copied := query.clone()

	if options != nil && options.PageSize > 0 {
		copied.Limit = options.PageSize
	}

	iterator := NewRowIterator(ctx, lister, identifier, copied)

	if options == nil || options.MaxPages <= 0 {
		return iterator.All()
	}

	maxRows := options.MaxPages * iterator.pageSize
	rows := make([]Row, 0, maxRows)

	for iterator.HasNext() && len(rows) < maxRows {
		row, err := iterator.Next()
		if err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}

	return rows, nil
}
