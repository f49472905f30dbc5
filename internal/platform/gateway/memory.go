package gateway

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Gateway. Each table has an identity column that is
// filled with a per-table sequence on insert when the caller leaves it empty.
// Values are stored as given; comparisons are made on their fmt.Sprint form so
// that an int64 filter matches a float64 value decoded from JSON.
type Memory struct {
	mu         sync.RWMutex
	identities map[string]string
	tables     map[string][]Row
	seq        map[string]int64
}

// NewMemory returns an empty store. identities maps table name to its
// generated identifier column.
func NewMemory(identities map[string]string) *Memory {
	ids := make(map[string]string, len(identities))
	for t, c := range identities {
		ids[t] = c
	}
	return &Memory{
		identities: ids,
		tables:     make(map[string][]Row),
		seq:        make(map[string]int64),
	}
}

func (m *Memory) Select(_ context.Context, q Query) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Row
	for _, r := range m.tables[q.Table] {
		ok, err := matchAll(r, q.Filters)
		if err != nil {
			return nil, fmt.Errorf("gateway: select %s: %w", q.Table, err)
		}
		if !ok {
			continue
		}
		if len(q.Any) > 0 {
			ok, err = matchAny(r, q.Any)
			if err != nil {
				return nil, fmt.Errorf("gateway: select %s: %w", q.Table, err)
			}
			if !ok {
				continue
			}
		}
		out = append(out, r)
	}

	// Sort before projecting so the order column need not be selected.
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			c := compareValues(out[i][q.OrderBy], out[j][q.OrderBy])
			if q.Descending {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	for i, r := range out {
		out[i] = project(r, q.Columns)
	}
	return out, nil
}

func (m *Memory) Insert(_ context.Context, table string, row Row) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := copyRow(row)
	if idCol, ok := m.identities[table]; ok {
		if v, present := stored[idCol]; !present || v == nil {
			m.seq[table]++
			stored[idCol] = m.seq[table]
		} else if n, ok := v.(int64); ok && n > m.seq[table] {
			m.seq[table] = n
		}
	}
	m.tables[table] = append(m.tables[table], stored)
	return copyRow(stored), nil
}

func (m *Memory) Update(_ context.Context, table string, values Row, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, fmt.Errorf("gateway: update %s: %w", table, ErrUnfiltered)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, r := range m.tables[table] {
		ok, err := matchAll(r, filters)
		if err != nil {
			return n, fmt.Errorf("gateway: update %s: %w", table, err)
		}
		if !ok {
			continue
		}
		for k, v := range values {
			r[k] = v
		}
		n++
	}
	return n, nil
}

func (m *Memory) Delete(_ context.Context, table string, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, fmt.Errorf("gateway: delete %s: %w", table, ErrUnfiltered)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[table]
	kept := rows[:0]
	var n int64
	for _, r := range rows {
		ok, err := matchAll(r, filters)
		if err != nil {
			return 0, fmt.Errorf("gateway: delete %s: %w", table, err)
		}
		if ok {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.tables[table] = kept
	return n, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() {}

// Len reports the number of rows currently stored in table.
func (m *Memory) Len(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}

func matchAll(r Row, filters []Filter) (bool, error) {
	for _, f := range filters {
		ok, err := match(r, f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchAny(r Row, filters []Filter) (bool, error) {
	for _, f := range filters {
		ok, err := match(r, f)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func match(r Row, f Filter) (bool, error) {
	v, ok := r[f.Column]
	if !ok || v == nil {
		return false, nil
	}
	switch f.Op {
	case OpEq:
		return fmt.Sprint(v) == fmt.Sprint(f.Value), nil
	case OpILike:
		pattern, ok := f.Value.(string)
		if !ok {
			return false, fmt.Errorf("ilike on %s needs a string pattern", f.Column)
		}
		re, err := likeToRegexp(pattern)
		if err != nil {
			return false, err
		}
		return re.MatchString(fmt.Sprint(v)), nil
	}
	return false, fmt.Errorf("unsupported operator %q", f.Op)
}

// likeToRegexp converts a LIKE pattern with backslash escapes into a
// case-insensitive anchored regular expression.
func likeToRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?is)^")
	escaped := false
	for _, ch := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(ch)))
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '%':
			b.WriteString(".*")
		case ch == '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

func project(r Row, cols []string) Row {
	if len(cols) == 0 {
		return copyRow(r)
	}
	out := make(Row, len(cols))
	for _, c := range cols {
		if v, ok := r[c]; ok {
			out[c] = v
		} else {
			out[c] = nil
		}
	}
	return out
}

func copyRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func compareValues(a, b any) int {
	if fa, okA := toFloat(a); okA {
		if fb, okB := toFloat(b); okB {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
