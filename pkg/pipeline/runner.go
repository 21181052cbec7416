package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geco/pkg/cache"
	"github.com/matzehuels/geco/pkg/fetch"
	"github.com/matzehuels/geco/pkg/observability"
	"github.com/matzehuels/geco/pkg/render/synteny/layout"
	"github.com/matzehuels/geco/pkg/source"
)

// sourceInline names inline datasets in hooks and cache keys.
const sourceInline = "inline"

// Runner encapsulates pipeline execution with caching.
//
// The Runner keeps no per-run state, so multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Source source.Source
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer selects the DefaultKeyer, a nil
// cache disables caching and a nil source allows inline datasets only.
func NewRunner(c cache.Cache, keyer cache.Keyer, src source.Source, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Source: src,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	loadStart := time.Now()
	b, key, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Bundle = b
	result.DatasetKey = key
	result.Warnings = append(result.Warnings, b.Warnings...)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.RowCount = b.Dataset.Len()

	r.Logger.Info("loaded dataset",
		"rows", b.Dataset.Len(),
		"tree", b.Tree != nil,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, b, key, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Warnings = append(result.Warnings, l.Warnings...)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.GlyphCount = l.GlyphCount()
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"glyphs", l.GlyphCount(),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, b, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load runs the load stage and returns the bundle with the key that
// identifies its dataset in layout cache keys.
func (r *Runner) Load(ctx context.Context, opts Options) (*fetch.Bundle, string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, "", err
	}

	srcName, query := sourceInline, sourceInline
	if !opts.HasInlineDataset() {
		query = opts.Query.Key()
		if r.Source != nil {
			srcName = r.Source.Name()
		}
	}

	observability.Pipeline().OnFetchStart(ctx, srcName, query)
	start := time.Now()
	b, err := Load(ctx, r.Source, opts)
	rows := 0
	if b != nil {
		rows = b.Dataset.Len()
	}
	observability.Pipeline().OnFetchComplete(ctx, srcName, query, rows, time.Since(start), err)
	if err != nil {
		return nil, "", err
	}
	return b, r.datasetKey(srcName, opts), nil
}

func (r *Runner) datasetKey(srcName string, opts Options) string {
	if opts.HasInlineDataset() {
		return sourceInline + ":" + cache.Hash(opts.Dataset)
	}
	return r.Keyer.DatasetKey(srcName, strings.Join(opts.Query.IDs, ","), cache.DatasetKeyOpts{
		Kind:   opts.Query.Kind,
		Cutoff: opts.Query.Cutoff,
	})
}

// GenerateLayoutWithCacheInfo lays out b with caching and reports whether
// the layout came from the cache. Unseeded runs are never cached.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, b *fetch.Bundle, datasetKey string, opts Options) (layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}

	cacheable := opts.Cacheable() && datasetKey != ""
	cacheKey := r.Keyer.LayoutKey(datasetKey, opts.LayoutKeyOpts(b))

	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	observability.Pipeline().OnLayoutStart(ctx, opts.Params.Notation, b.Dataset.Len())
	start := time.Now()
	l, err := GenerateLayout(b, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Params.Notation, l.GlyphCount(), time.Since(start), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	if cacheable {
		if data, err := json.Marshal(l); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, TTLLayout); err == nil {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			}
		}
	}
	return l, false, nil
}

// GenerateLayout is GenerateLayoutWithCacheInfo without the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, b *fetch.Bundle, datasetKey string, opts Options) (layout.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, b, datasetKey, opts)
	return l, err
}

// RenderWithCacheInfo renders every requested format with caching and
// reports whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, b *fetch.Bundle, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	cacheable := opts.Cacheable()
	var layoutHash string
	if layoutData, err := json.Marshal(l); err == nil {
		layoutHash = cache.Hash(append(layoutData, b.TreeText...))
	} else {
		opts.Logger.Debug("layout not serializable, skipping artifact cache", "err", err)
		cacheable = false
	}

	if cacheable && !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, l, b.Tree, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if cacheable {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, TTLArtifact); err == nil {
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, b *fetch.Bundle, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, b, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
