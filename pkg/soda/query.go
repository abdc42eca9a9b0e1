package soda

import (
	"net/url"
	"strconv"
)

// Query holds the SoQL options for a row retrieval. The zero value selects
// the server defaults. Reserved options map to the "$"-prefixed SoQL query
// parameters; Filters is the open extension map for arbitrary field-equality
// filters, passed through verbatim. The client performs no local validation
// of filter syntax.
//
// More information about the SoQL parameters can be found at
// https://dev.socrata.com/docs/queries/
type Query struct {
	// Select is the set of columns to be returned. Defaults to "*".
	Select string
	// Where filters the rows to be returned.
	Where string
	// Order specifies the order of results.
	Order string
	// Group is the column to group results on, used with aggregations in
	// Select.
	Group string
	// Q performs a full-text search across the row.
	Q string
	// SoQL is a complete SoQL query string submitted as the single $query
	// parameter; it subsumes the other options.
	SoQL string
	// Limit is the maximum number of results to return. The server applies
	// its own default (1000) when unset.
	Limit int
	// Offset shifts the result window, used for paging.
	Offset int
	// IncludeSystemFields asks the server to include the :id, :created_at
	// and :updated_at system fields, which are excluded by default.
	IncludeSystemFields bool

	// Filters holds arbitrary field-name equality filters, e.g.
	// {"source": ["pr"]}.
	Filters map[string][]string
}

// NewQuery creates an empty query.
func NewQuery() *Query {
	return &Query{
		Filters: make(map[string][]string),
	}
}

// WithSelect sets the columns to return.
func (q *Query) WithSelect(selectClause string) *Query {
	q.Select = selectClause

	return q
}

// WithWhere sets the row filter.
func (q *Query) WithWhere(where string) *Query {
	q.Where = where

	return q
}

// WithOrder sets the result order.
func (q *Query) WithOrder(order string) *Query {
	q.Order = order

	return q
}

// WithGroup sets the grouping column.
func (q *Query) WithGroup(group string) *Query {
	q.Group = group

	return q
}

// WithQ sets the full-text search term.
func (q *Query) WithQ(text string) *Query {
	q.Q = text

	return q
}

// WithSoQL sets a complete SoQL query string.
func (q *Query) WithSoQL(query string) *Query {
	q.SoQL = query

	return q
}

// WithLimit sets the maximum number of results.
func (q *Query) WithLimit(limit int) *Query {
	q.Limit = limit

	return q
}

// WithOffset sets the result window offset.
func (q *Query) WithOffset(offset int) *Query {
	q.Offset = offset

	return q
}

// WithSystemFields asks for the :id, :created_at and :updated_at fields.
func (q *Query) WithSystemFields() *Query {
	q.IncludeSystemFields = true

	return q
}

// WithFilter appends values to a field-equality filter.
func (q *Query) WithFilter(field string, values ...string) *Query {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[field] = append(q.Filters[field], values...)

	return q
}

// ToValues converts the query to URL query parameters. Unset options are
// omitted entirely rather than sent as empty values.
func (q *Query) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.Select != "" {
		values.Set("$select", q.Select)
	}

	if q.Where != "" {
		values.Set("$where", q.Where)
	}

	if q.Order != "" {
		values.Set("$order", q.Order)
	}

	if q.Group != "" {
		values.Set("$group", q.Group)
	}

	if q.Q != "" {
		values.Set("$q", q.Q)
	}

	if q.SoQL != "" {
		values.Set("$query", q.SoQL)
	}

	if q.Limit > 0 {
		values.Set("$limit", strconv.Itoa(q.Limit))
	}

	if q.Offset > 0 {
		values.Set("$offset", strconv.Itoa(q.Offset))
	}

	if q.IncludeSystemFields {
		values.Set("$$exclude_system_fields", "false")
	}

	for field, filterValues := range q.Filters {
		for _, value := range filterValues {
			values.Add(field, value)
		}
	}

	return values
}

// clone returns a shallow copy with its own Filters map, so paging can adjust
// Limit and Offset without mutating the caller's query.
func (q *Query) clone() *Query {
	if q == nil {
		return NewQuery()
	}

	copied := *q
	copied.Filters = make(map[string][]string, len(q.Filters))

	for field, values := range q.Filters {
		copied.Filters[field] = append([]string(nil), values...)
	}

	return &copied
}

// CatalogQuery holds the options for a catalog (discovery) search. The
// repeatable filters send one query parameter per value; the single-valued
// filters and the tri-state booleans send at most one.
//
// See https://socratadiscovery.docs.apiary.io for the filter semantics.
type CatalogQuery struct {
	// Limit is the maximum number of results to return; 0 means no limit,
	// in which case the parameter is omitted and the client pages through
	// the complete catalog.
	Limit int
	// Offset shifts the result window.
	Offset int
	// Order is the field to sort on, optionally with an " ASC" or " DESC"
	// suffix.
	Order string

	// Repeatable filters.
	IDs         []string
	Domains     []string
	Categories  []string
	Tags        []string
	Only        []string
	SharedTo    []string
	ColumnNames []string

	// Single-valued filters.
	Q              string
	MinShouldMatch string
	Attribution    string
	License        string
	DerivedFrom    string
	Provenance     string
	ForUser        string
	Visibility     string
	ApprovalStatus string

	// Tri-state filters; nil leaves the filter unset.
	Public           *bool
	Published        *bool
	ExplicitlyHidden *bool
	Derived          *bool
}

// NewCatalogQuery creates an empty catalog query.
func NewCatalogQuery() *CatalogQuery {
	return &CatalogQuery{}
}

// WithLimit sets the maximum number of results; 0 means the whole catalog.
func (q *CatalogQuery) WithLimit(limit int) *CatalogQuery {
	q.Limit = limit

	return q
}

// WithOffset sets the result window offset.
func (q *CatalogQuery) WithOffset(offset int) *CatalogQuery {
	q.Offset = offset

	return q
}

// WithOrder sets the sort field.
func (q *CatalogQuery) WithOrder(order string) *CatalogQuery {
	q.Order = order

	return q
}

// WithSearch sets the full-text search term.
func (q *CatalogQuery) WithSearch(text string) *CatalogQuery {
	q.Q = text

	return q
}

// WithCategories appends category filters.
func (q *CatalogQuery) WithCategories(categories ...string) *CatalogQuery {
	q.Categories = append(q.Categories, categories...)

	return q
}

// WithTags appends tag filters.
func (q *CatalogQuery) WithTags(tags ...string) *CatalogQuery {
	q.Tags = append(q.Tags, tags...)

	return q
}

// WithOnly restricts results to the given logical types (e.g. "dataset",
// "chart", "map").
func (q *CatalogQuery) WithOnly(types ...string) *CatalogQuery {
	q.Only = append(q.Only, types...)

	return q
}

// ToValues converts the catalog query to URL query parameters. The client
// prepends its own domain to the "domains" values before sending.
func (q *CatalogQuery) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}

	if q.Order != "" {
		values.Set("order", q.Order)
	}

	repeatable := []struct {
		key    string
		values []string
	}{
		{"ids", q.IDs},
		{"domains", q.Domains},
		{"categories", q.Categories},
		{"tags", q.Tags},
		{"only", q.Only},
		{"shared_to", q.SharedTo},
		{"column_names", q.ColumnNames},
	}

	for _, filter := range repeatable {
		for _, value := range filter.values {
			values.Add(filter.key, value)
		}
	}

	single := []struct {
		key   string
		value string
	}{
		{"q", q.Q},
		{"min_should_match", q.MinShouldMatch},
		{"attribution", q.Attribution},
		{"license", q.License},
		{"derived_from", q.DerivedFrom},
		{"provenance", q.Provenance},
		{"for_user", q.ForUser},
		{"visibility", q.Visibility},
		{"approval_status", q.ApprovalStatus},
	}

	for _, filter := range single {
		if filter.value != "" {
			values.Set(filter.key, filter.value)
		}
	}

	tristate := []struct {
		key   string
		value *bool
	}{
		{"public", q.Public},
		{"published", q.Published},
		{"explicitly_hidden", q.ExplicitlyHidden},
		{"derived", q.Derived},
	}

	for _, filter := range tristate {
		if filter.value != nil {
			values.Set(filter.key, strconv.FormatBool(*filter.value))
		}
	}

	return values
}
