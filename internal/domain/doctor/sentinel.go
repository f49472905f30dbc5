package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrSentinelMissing means the placeholder doctor that receives reassigned
// visits does not exist. It is a configuration error.
var ErrSentinelMissing = errors.New("sentinel doctor missing")

// ResolveSentinel finds the placeholder doctor once at startup. A positive id
// is looked up directly. Otherwise the doctor is found by exact name; when
// several rows share the name the lowest id is used and a warning is logged.
func ResolveSentinel(ctx context.Context, repo Repository, id int64, name string, log zerolog.Logger) (*Doctor, error) {
	if id > 0 {
		d, err := repo.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: no doctor with id %d", ErrSentinelMissing, id)
		}
		if err != nil {
			return nil, fmt.Errorf("resolve sentinel doctor: %w", err)
		}
		return d, nil
	}

	matches, err := repo.ListByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolve sentinel doctor: %w", err)
	}
	if len(matches) == 0 {
		log.Warn().Str("name", name).Msg("no doctor carries the sentinel name")
		return nil, fmt.Errorf("%w: no doctor named %q", ErrSentinelMissing, name)
	}
	chosen := matches[0]
	for _, d := range matches[1:] {
		if d.ID < chosen.ID {
			chosen = d
		}
	}
	if len(matches) > 1 {
		log.Warn().
			Str("name", name).
			Int("matches", len(matches)).
			Int64("doctor_id", chosen.ID).
			Msg("several doctors carry the sentinel name, using the lowest id; set SENTINEL_DOCTOR_ID")
	}
	return chosen, nil
}
