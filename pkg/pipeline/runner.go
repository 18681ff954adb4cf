package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/emojiqr/pkg/assets"
	"github.com/matzehuels/emojiqr/pkg/cache"
	"github.com/matzehuels/emojiqr/pkg/errors"
	"github.com/matzehuels/emojiqr/pkg/observability"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

// formatMeta is the pseudo-format under which render measurements are cached
// next to the artifacts.
const formatMeta = "meta"

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Assets assets.Store
	Logger *log.Logger

	// AssetsID distinguishes caches built against different asset stores,
	// typically the asset directory path.
	AssetsID string
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the DefaultKeyer and a nil store renders emoji overlays as text.
func NewRunner(c cache.Cache, keyer cache.Keyer, store assets.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if store == nil {
		store = assets.None{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Assets: store, Logger: logger}
}

type renderMeta struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Side    int    `json:"side"`
	Modules int    `json:"modules"`
	Overlay string `json:"overlay"`
}

// Execute runs encode → render → convert and returns every requested format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger

	hash, err := r.renderHash(opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash options")
	}
	result := &Result{RenderHash: hash}
	result.Warnings = contrastWarnings(opts.Style)
	for _, w := range result.Warnings {
		logger.Warn(w)
	}

	if !opts.Refresh {
		if artifacts, meta, ok := r.cachedArtifacts(ctx, result.RenderHash, opts); ok {
			result.Artifacts = artifacts
			result.applyMeta(meta)
			result.CacheHit = true
			logger.Debug("served from cache", "formats", opts.Formats, "hash", ShortHash(result.RenderHash, 12))
			return result, nil
		}
	}

	start := time.Now()
	m, matrixHit, err := r.Encode(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.Stats.EncodeTime = time.Since(start)
	result.Stats.MatrixHit = matrixHit
	logger.Debug("encoded content", "side", m.Width(), "level", opts.Level, "cached", matrixHit, "duration", result.Stats.EncodeTime)

	start = time.Now()
	doc, artifacts, err := Render(ctx, m, r.Assets, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(start)
	result.Artifacts = artifacts
	meta := renderMeta{
		Width:   doc.Width,
		Height:  doc.Height,
		Side:    m.Width(),
		Modules: doc.Modules,
		Overlay: string(doc.Overlay),
	}
	result.applyMeta(meta)
	logger.Info("rendered",
		"size", fmt.Sprintf("%dx%d", doc.Width, doc.Height),
		"modules", doc.Modules,
		"overlay", doc.Overlay,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	r.storeArtifacts(ctx, result.RenderHash, opts, artifacts, meta)
	return result, nil
}

func (r *Runner) renderHash(opts Options) (string, error) {
	h, err := opts.RenderHash()
	if err != nil || r.AssetsID == "" {
		return h, err
	}
	return cache.Hash([]byte(h + "\x00" + r.AssetsID)), nil
}

// cachedArtifacts returns every requested artifact and the render metadata,
// or ok=false if any of them is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, hash string, opts Options) (map[string][]byte, renderMeta, bool) {
	var meta renderMeta
	raw, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(formatMeta)))
	if err != nil {
		opts.Logger.Warn("cache read failed", "err", err)
	}
	if !hit || json.Unmarshal(raw, &meta) != nil {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return nil, meta, false
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)))
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, meta, false
		}
		artifacts[format] = data
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return artifacts, meta, true
}

func (r *Runner) storeArtifacts(ctx context.Context, hash string, opts Options, artifacts map[string][]byte, meta renderMeta) {
	for format, data := range artifacts {
		if err := r.Cache.Set(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			return
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	// Metadata goes last so a partial write is never mistaken for a hit.
	if raw, err := json.Marshal(meta); err == nil {
		_ = r.Cache.Set(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(formatMeta)), raw, cache.TTLArtifact)
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (res *Result) applyMeta(m renderMeta) {
	res.Width, res.Height = m.Width, m.Height
	res.Side, res.Modules = m.Side, m.Modules
	res.Overlay = m.Overlay
}

// contrastWarnings flags body and caption colors that are hard to tell from
// the background.
func contrastWarnings(c styles.Config) []string {
	var out []string
	if ratio, ok := styles.Contrast(c.Colors.Body, c.Colors.Background); ok && ratio < MinContrast {
		out = append(out, fmt.Sprintf("low contrast between body %s and background %s (%.2f:1)", c.Colors.Body, c.Colors.Background, ratio))
	}
	if c.HasCaption() {
		if ratio, ok := styles.Contrast(c.Colors.Caption, c.Colors.Background); ok && ratio < MinContrast {
			out = append(out, fmt.Sprintf("low contrast between caption %s and background %s (%.2f:1)", c.Colors.Caption, c.Colors.Background, ratio))
		}
	}
	return out
}
