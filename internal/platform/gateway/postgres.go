package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// Postgres is a Gateway backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
	q    querier
}

// NewPostgres wraps an open pool. The gateway owns the pool and closes it on
// Close.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, q: pool}
}

// Pool exposes the underlying pool for health reporting.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *Postgres) Select(ctx context.Context, q Query) ([]Row, error) {
	sql, args := buildSelect(q)
	rows, err := p.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("gateway: select %s: %w", q.Table, err)
	}
	out, err := collectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("gateway: select %s: %w", q.Table, err)
	}
	return out, nil
}

func (p *Postgres) Insert(ctx context.Context, table string, row Row) (Row, error) {
	sql, args := buildInsert(table, row)
	rows, err := p.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("gateway: insert %s: %w", table, err)
	}
	out, err := collectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("gateway: insert %s: %w", table, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("gateway: insert %s: %w", table, ErrNoRows)
	}
	return out[0], nil
}

func (p *Postgres) Update(ctx context.Context, table string, values Row, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, fmt.Errorf("gateway: update %s: %w", table, ErrUnfiltered)
	}
	sql, args := buildUpdate(table, values, filters)
	tag, err := p.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("gateway: update %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) Delete(ctx context.Context, table string, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, fmt.Errorf("gateway: delete %s: %w", table, ErrUnfiltered)
	}
	sql, args := buildDelete(table, filters)
	tag, err := p.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("gateway: delete %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func collectRows(rows pgx.Rows) ([]Row, error) {
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(maps))
	for _, m := range maps {
		r := make(Row, len(m))
		for k, v := range m {
			r[k] = normalizeValue(v)
		}
		out = append(out, r)
	}
	return out, nil
}

// normalizeValue turns pgx-specific scan results into plain Go values.
func normalizeValue(v any) any {
	switch n := v.(type) {
	case pgtype.Numeric:
		if !n.Valid {
			return nil
		}
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case int32:
		return int64(n)
	case int16:
		return int64(n)
	}
	return v
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

type argList struct {
	args []any
}

func (a *argList) add(v any) string {
	a.args = append(a.args, v)
	return fmt.Sprintf("$%d", len(a.args))
}

func buildPredicate(f Filter, a *argList) string {
	switch f.Op {
	case OpILike:
		return quoteIdent(f.Column) + " ILIKE " + a.add(f.Value)
	default:
		return quoteIdent(f.Column) + " = " + a.add(f.Value)
	}
}

func buildWhere(filters, or []Filter, a *argList) string {
	var parts []string
	for _, f := range filters {
		parts = append(parts, buildPredicate(f, a))
	}
	if len(or) > 0 {
		var ors []string
		for _, f := range or {
			ors = append(ors, buildPredicate(f, a))
		}
		parts = append(parts, "("+strings.Join(ors, " OR ")+")")
	}
	if len(parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

func buildSelect(q Query) (string, []any) {
	cols := "*"
	if len(q.Columns) > 0 {
		quoted := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			quoted[i] = quoteIdent(c)
		}
		cols = strings.Join(quoted, ", ")
	}

	var a argList
	sql := "SELECT " + cols + " FROM " + quoteIdent(q.Table) + buildWhere(q.Filters, q.Any, &a)
	if q.OrderBy != "" {
		sql += " ORDER BY " + quoteIdent(q.OrderBy)
		if q.Descending {
			sql += " DESC"
		}
	}
	if q.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	return sql, a.args
}

// sortedColumns gives generated statements a stable column order.
func sortedColumns(r Row) []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func buildInsert(table string, row Row) (string, []any) {
	if len(row) == 0 {
		return "INSERT INTO " + quoteIdent(table) + " DEFAULT VALUES RETURNING *", nil
	}
	var a argList
	cols := sortedColumns(row)
	quoted := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		params[i] = a.add(row[c])
	}
	sql := "INSERT INTO " + quoteIdent(table) +
		" (" + strings.Join(quoted, ", ") + ") VALUES (" + strings.Join(params, ", ") + ") RETURNING *"
	return sql, a.args
}

func buildUpdate(table string, values Row, filters []Filter) (string, []any) {
	var a argList
	cols := sortedColumns(values)
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = quoteIdent(c) + " = " + a.add(values[c])
	}
	sql := "UPDATE " + quoteIdent(table) + " SET " + strings.Join(sets, ", ") + buildWhere(filters, nil, &a)
	return sql, a.args
}

func buildDelete(table string, filters []Filter) (string, []any) {
	var a argList
	return "DELETE FROM " + quoteIdent(table) + buildWhere(filters, nil, &a), a.args
}
