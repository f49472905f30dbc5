package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ehr/hospital/internal/platform/db"
)

// Options configures Open.
type Options struct {
	URL        string
	Key        string
	Timeout    time.Duration
	MaxConns   int32
	MinConns   int32
	Identities map[string]string
}

// Open builds the Gateway selected by the scheme of opts.URL: postgres:// and
// postgresql:// use pgx, http:// and https:// use PostgREST, memory:// keeps
// everything in process.
func Open(ctx context.Context, opts Options) (Gateway, error) {
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("gateway: parse url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		pool, err := db.NewPool(ctx, opts.URL, opts.Key, opts.MaxConns, opts.MinConns)
		if err != nil {
			return nil, fmt.Errorf("gateway: %w", err)
		}
		return NewPostgres(pool), nil
	case "http", "https":
		return NewREST(opts.URL, opts.Key, opts.Timeout)
	case "memory":
		return NewMemory(opts.Identities), nil
	}
	return nil, fmt.Errorf("gateway: unsupported url scheme %q", u.Scheme)
}
