package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/emojiqr/pkg/cache"
	"github.com/matzehuels/emojiqr/pkg/matrix"
	"github.com/matzehuels/emojiqr/pkg/observability"
)

// Encode turns the content into a module matrix, consulting the cache first.
// A matrix supplied in opts is returned as is.
func (r *Runner) Encode(ctx context.Context, opts Options) (*matrix.Matrix, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if opts.Matrix != nil {
		return opts.Matrix, false, nil
	}

	key := r.Keyer.MatrixKey(opts.Content, opts.Level)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if m, err := matrix.Parse(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "matrix")
				return m, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "matrix")
	}

	hooks := observability.Pipeline()
	hooks.OnEncodeStart(ctx, opts.Level, len(opts.Content))
	start := time.Now()
	m, err := matrix.Encode(opts.Content, matrix.Level(opts.Level))
	side := 0
	if m != nil {
		side = m.Width()
	}
	hooks.OnEncodeComplete(ctx, opts.Level, side, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if text, err := m.MarshalText(); err == nil {
		if err := r.Cache.Set(ctx, key, text, cache.TTLMatrix); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "matrix", len(text))
		}
	}
	return m, false, nil
}
