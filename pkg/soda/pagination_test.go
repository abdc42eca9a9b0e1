package soda_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fivetwenty-io/soda/pkg/soda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRowLister implements RowLister for testing. It serves rows out of a
// fixed backing slice, honoring the query's limit and offset the way the API
// does.
type MockRowLister struct {
	rows     []soda.Row
	failFrom int
	calls    int
}

var errListFailed = errors.New("list failed")

func (m *MockRowLister) Get(ctx context.Context, identifier string, query *soda.Query) ([]soda.Row, error) {
	m.calls++

	if m.failFrom > 0 && m.calls >= m.failFrom {
		return nil, errListFailed
	}

	limit := query.Limit
	if limit <= 0 {
		limit = soda.DefaultLimit
	}

	offset := query.Offset
	if offset >= len(m.rows) {
		return []soda.Row{}, nil
	}

	end := offset + limit
	if end > len(m.rows) {
		end = len(m.rows)
	}

	return m.rows[offset:end], nil
}

func makeRows(n int) []soda.Row {
	rows := make([]soda.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, soda.Row{"id": fmt.Sprintf("%d", i)})
	}

	return rows
}

func TestRowIterator_HasNext(t *testing.T) {
	t.Parallel()

	lister := &MockRowLister{rows: makeRows(3)}

	ctx := context.Background()
	iterator := soda.NewRowIterator(ctx, lister, "test-data", soda.NewQuery().WithLimit(2))

	// Should have next before any fetch
	assert.True(t, iterator.HasNext())

	row1, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "0", row1["id"])

	assert.True(t, iterator.HasNext())

	row2, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "1", row2["id"])

	// Should still have next (second page)
	assert.True(t, iterator.HasNext())

	row3, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "2", row3["id"])

	assert.False(t, iterator.HasNext())

	_, err = iterator.Next()
	assert.ErrorIs(t, err, soda.ErrNoMoreRows)
}

func TestRowIterator_ShortPageEndsIteration(t *testing.T) {
	t.Parallel()

	// 5 rows with page size 2: pages of 2, 2, 1; the short page ends the
	// iteration without an extra empty fetch.
	lister := &MockRowLister{rows: makeRows(5)}

	ctx := context.Background()
	iterator := soda.NewRowIterator(ctx, lister, "test-data", soda.NewQuery().WithLimit(2))

	rows, err := iterator.All()
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Equal(t, 3, lister.calls)
}

func TestRowIterator_ExactMultipleFetchesEmptyPage(t *testing.T) {
	t.Parallel()

	// 4 rows with page size 2: two full pages, then one empty fetch to
	// discover the end.
	lister := &MockRowLister{rows: makeRows(4)}

	ctx := context.Background()
	iterator := soda.NewRowIterator(ctx, lister, "test-data", soda.NewQuery().WithLimit(2))

	rows, err := iterator.All()
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, 3, lister.calls)
}

func TestRowIterator_EmptyDataset(t *testing.T) {
	t.Parallel()

	lister := &MockRowLister{}

	ctx := context.Background()
	iterator := soda.NewRowIterator(ctx, lister, "test-data", nil)

	assert.False(t, iterator.HasNext())

	_, err := iterator.Next()
	assert.ErrorIs(t, err, soda.ErrNoMoreRows)
	assert.Equal(t, 1, lister.calls)
}

func TestRowIterator_ForEach(t *testing.T) {
	t.Parallel()

	lister := &MockRowLister{rows: makeRows(4)}

	ctx := context.Background()
	iterator := soda.NewRowIterator(ctx, lister, "test-data", soda.NewQuery().WithLimit(3))

	var collected []string

	err := iterator.ForEach(func(row soda.Row) error {
		collected = append(collected, row["id"].(string))

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "3"}, collected)
}

func TestRowIterator_ForEachStopsOnCallbackError(t *testing.T) {
	t.Parallel()

	lister := &MockRowLister{rows: makeRows(4)}
	errStop := errors.New("stop")

	ctx := context.Background()
	iterator := soda.NewRowIterator(ctx, lister, "test-data", soda.NewQuery().WithLimit(2))

	seen := 0
	err := iterator.ForEach(func(row soda.Row) error {
		seen++
		if seen == 2 {
			return errStop
		}

		return nil
	})

	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, 2, seen)
}

func TestRowIterator_FetchErrorLatches(t *testing.T) {
	t.Parallel()

	lister := &MockRowLister{rows: makeRows(6), failFrom: 2}

	ctx := context.Background()
	iterator := soda.NewRowIterator(ctx, lister, "test-data", soda.NewQuery().WithLimit(2))

	row, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "0", row["id"])

	_, err = iterator.Next()
	require.NoError(t, err)

	// Second fetch fails; HasNext stays true so the error is observed.
	assert.True(t, iterator.HasNext())

	_, err = iterator.Next()
	assert.ErrorIs(t, err, errListFailed)

	// The error latches: no further fetches are attempted.
	_, err = iterator.Next()
	assert.ErrorIs(t, err, errListFailed)
	assert.Equal(t, 2, lister.calls)
}

func TestRowIterator_DoesNotMutateCallerQuery(t *testing.T) {
	t.Parallel()

	lister := &MockRowLister{rows: makeRows(5)}
	query := soda.NewQuery().WithLimit(2)

	ctx := context.Background()

	_, err := soda.NewRowIterator(ctx, lister, "test-data", query).All()
	require.NoError(t, err)

	assert.Equal(t, 0, query.Offset)
	assert.Equal(t, 2, query.Limit)
}

func TestRowIterator_StartsAtQueryOffset(t *testing.T) {
	t.Parallel()

	lister := &MockRowLister{rows: makeRows(6)}

	ctx := context.Background()
	iterator := soda.NewRowIterator(ctx, lister, "test-data", soda.NewQuery().WithLimit(2).WithOffset(3))

	rows, err := iterator.All()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "3", rows[0]["id"])
	assert.Equal(t, "5", rows[2]["id"])
}

func TestFetchAllRows(t *testing.T) {
	t.Parallel()

	lister := &MockRowLister{rows: makeRows(5)}

	ctx := context.Background()

	rows, err := soda.FetchAllRows(ctx, lister, "test-data", nil, &soda.PaginationOptions{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestFetchAllRows_WithMaxPages(t *testing.T) {
	t.Parallel()

	lister := &MockRowLister{rows: makeRows(5)}

	ctx := context.Background()

	options := &soda.PaginationOptions{PageSize: 2, MaxPages: 2}

	rows, err := soda.FetchAllRows(ctx, lister, "test-data", nil, options)
	require.NoError(t, err)
	assert.Len(t, rows, 4) // Only first 2 pages
}
