package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// REST is a Gateway speaking the PostgREST dialect exposed by hosted
// Supabase projects under /rest/v1.
type REST struct {
	base   *url.URL
	key    string
	client *http.Client
}

// NewREST builds a REST gateway for the project at baseURL. The key is sent
// both as the apikey header and as a bearer token.
func NewREST(baseURL, key string, timeout time.Duration) (*REST, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("gateway: parse rest url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("gateway: rest url must be http or https, got %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/rest/v1") {
		u.Path += "/rest/v1"
	}
	return &REST{
		base:   u,
		key:    key,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (r *REST) Select(ctx context.Context, q Query) ([]Row, error) {
	params := url.Values{}
	if len(q.Columns) > 0 {
		params.Set("select", strings.Join(q.Columns, ","))
	} else {
		params.Set("select", "*")
	}
	encodeFilters(params, q.Filters)
	if len(q.Any) > 0 {
		params.Set("or", encodeOr(q.Any))
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.Descending {
			dir = "desc"
		}
		params.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var rows []Row
	if err := r.do(ctx, http.MethodGet, q.Table, params, nil, &rows); err != nil {
		return nil, fmt.Errorf("gateway: select %s: %w", q.Table, err)
	}
	return rows, nil
}

func (r *REST) Insert(ctx context.Context, table string, row Row) (Row, error) {
	var rows []Row
	if err := r.do(ctx, http.MethodPost, table, url.Values{}, row, &rows); err != nil {
		return nil, fmt.Errorf("gateway: insert %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("gateway: insert %s: %w", table, ErrNoRows)
	}
	return rows[0], nil
}

func (r *REST) Update(ctx context.Context, table string, values Row, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, fmt.Errorf("gateway: update %s: %w", table, ErrUnfiltered)
	}
	params := url.Values{}
	encodeFilters(params, filters)
	var rows []Row
	if err := r.do(ctx, http.MethodPatch, table, params, values, &rows); err != nil {
		return 0, fmt.Errorf("gateway: update %s: %w", table, err)
	}
	return int64(len(rows)), nil
}

func (r *REST) Delete(ctx context.Context, table string, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, fmt.Errorf("gateway: delete %s: %w", table, ErrUnfiltered)
	}
	params := url.Values{}
	encodeFilters(params, filters)
	var rows []Row
	if err := r.do(ctx, http.MethodDelete, table, params, nil, &rows); err != nil {
		return 0, fmt.Errorf("gateway: delete %s: %w", table, err)
	}
	return int64(len(rows)), nil
}

// Ping issues a HEAD against the API root.
func (r *REST) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, r.base.String()+"/", nil)
	if err != nil {
		return err
	}
	r.authorize(req)
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: ping: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("gateway: ping: status %d", resp.StatusCode)
	}
	return nil
}

func (r *REST) Close() {
	r.client.CloseIdleConnections()
}

func (r *REST) authorize(req *http.Request) {
	req.Header.Set("apikey", r.key)
	req.Header.Set("Authorization", "Bearer "+r.key)
}

// restError is the error body PostgREST returns on failure.
type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (r *REST) do(ctx context.Context, method, table string, params url.Values, body any, out *[]Row) error {
	u := *r.base
	u.Path = r.base.Path + "/" + url.PathEscape(table)
	u.RawQuery = params.Encode()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	r.authorize(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var re restError
		if json.Unmarshal(data, &re) == nil && re.Message != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, re.Message)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func encodeFilters(params url.Values, filters []Filter) {
	for _, f := range filters {
		params.Add(f.Column, string(f.Op)+"."+restValue(f))
	}
}

// encodeOr renders an OR group as PostgREST's or=(a.op.v,b.op.v) syntax.
// Values are double-quoted so commas and parentheses survive.
func encodeOr(filters []Filter) string {
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = f.Column + "." + string(f.Op) + "." + quoteReserved(restValue(f))
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// restValue formats a filter value. PostgREST uses * as the LIKE wildcard in
// URLs; escaped LIKE metacharacters are passed through as-is.
func restValue(f Filter) string {
	s := fmt.Sprint(f.Value)
	if f.Op != OpILike {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, ch := range s {
		switch {
		case escaped:
			b.WriteRune('\\')
			b.WriteRune(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '%':
			b.WriteRune('*')
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}

func quoteReserved(s string) string {
	if !strings.ContainsAny(s, `,()":`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
