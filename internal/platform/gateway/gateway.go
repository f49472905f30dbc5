// Package gateway is the single boundary through which the service reads and
// writes the remote patients, doctors and visits tables.
//
// A Gateway is table oriented: callers name a table, an optional column
// projection and a set of filters, and get rows back as column maps. Three
// drivers exist: Postgres (pgx), REST (PostgREST, the dialect spoken by
// hosted Supabase projects) and Memory (tests and local demos).
package gateway

import (
	"context"
	"errors"
	"strings"
)

// ErrNoRows is returned by Insert when the store accepted a write but
// returned no representation of it.
var ErrNoRows = errors.New("gateway: no rows returned")

// ErrUnfiltered is returned by Update and Delete when called without any
// filter; whole-table writes are never issued.
var ErrUnfiltered = errors.New("gateway: refusing unfiltered write")

// Row is a single table row keyed by column name.
type Row map[string]any

// Op is a filter comparison operator.
type Op string

const (
	// OpEq matches column = value.
	OpEq Op = "eq"
	// OpILike matches column ILIKE value, where value is a LIKE pattern.
	OpILike Op = "ilike"
)

// Filter is a single column predicate.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// Contains builds a case-insensitive substring filter. LIKE wildcards in term
// are escaped so they match literally.
func Contains(column, term string) Filter {
	return Filter{Column: column, Op: OpILike, Value: "%" + EscapeLike(term) + "%"}
}

// EscapeLike escapes the LIKE metacharacters %, _ and \ in s.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Query describes a select against one table.
type Query struct {
	Table string
	// Columns is the projection; empty selects every column.
	Columns []string
	// Filters are combined with AND.
	Filters []Filter
	// Any is an OR group, AND-ed with Filters when non-empty.
	Any []Filter
	// OrderBy names a column to sort on; empty leaves order unspecified.
	OrderBy    string
	Descending bool
	// Limit caps the row count; zero means no limit.
	Limit int
}

// Gateway is the remote data capability consumed by every repository.
type Gateway interface {
	Select(ctx context.Context, q Query) ([]Row, error)
	// Insert writes one row and returns the stored row, including any
	// generated identifier.
	Insert(ctx context.Context, table string, row Row) (Row, error)
	// Update overwrites the given columns on every row matching filters and
	// reports how many rows matched.
	Update(ctx context.Context, table string, values Row, filters ...Filter) (int64, error)
	// Delete removes every row matching filters and reports how many were
	// removed. Removing nothing is not an error.
	Delete(ctx context.Context, table string, filters ...Filter) (int64, error)
	Ping(ctx context.Context) error
	Close()
}
