package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svcgraph/pkg/cache"
	"github.com/matzehuels/svcgraph/pkg/graph"
	"github.com/matzehuels/svcgraph/pkg/observability"
	"github.com/matzehuels/svcgraph/pkg/render"
	"github.com/matzehuels/svcgraph/pkg/service"
	"github.com/matzehuels/svcgraph/pkg/view"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
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
		Logger: logger,
		TTL:    cache.TTLResult,
	}
}

// Execute runs flatten → render for doc with caching.
func (r *Runner) Execute(ctx context.Context, doc service.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Flatten
	flattenStart := time.Now()
	res, hash, hit, err := r.flatten(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("flatten: %w", err)
	}
	result.Graph = res
	result.DocumentHash = hash
	result.Stats.FlattenTime = time.Since(flattenStart)
	result.Stats.NodeCount = res.NodeCount()
	result.Stats.EdgeCount = res.EdgeCount()
	result.CacheInfo.FlattenHit = hit

	opts.Logger.Info("flattened document",
		"document", doc.Name,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"cached", hit,
		"duration", result.Stats.FlattenTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FlattenWithCacheInfo flattens doc with caching and returns cache hit info.
func (r *Runner) FlattenWithCacheInfo(ctx context.Context, doc service.Document, opts Options) (graph.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForFlatten(); err != nil {
		return graph.Result{}, false, err
	}
	res, _, hit, err := r.flatten(ctx, doc, opts)
	return res, hit, err
}

// Flatten is a convenience wrapper that calls FlattenWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Flatten(ctx context.Context, doc service.Document, opts Options) (graph.Result, error) {
	res, _, err := r.FlattenWithCacheInfo(ctx, doc, opts)
	return res, err
}

func (r *Runner) flatten(ctx context.Context, doc service.Document, opts Options) (graph.Result, string, bool, error) {
	docData, err := json.Marshal(doc)
	if err != nil {
		return graph.Result{}, "", false, fmt.Errorf("serialize document for cache key: %w", err)
	}
	docHash := cache.Hash(docData)
	cacheKey := r.Keyer.ResultKey(docHash, opts.ResultKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if res, err := graph.UnmarshalResult(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "result")
				return res, docHash, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	hooks := observability.Pipeline()
	hooks.OnFlattenStart(ctx, doc.Name, service.Count(doc.Entries))
	start := time.Now()
	res, stats := opts.flattener(docHash).FlattenDocument(doc)
	hooks.OnFlattenComplete(ctx, doc.Name, stats.Nodes, time.Since(start), nil)

	if stats.Dropped > 0 {
		opts.Logger.Debug("dropped unresolved references", "document", doc.Name, "count", stats.Dropped)
	}

	if data, err := graph.MarshalResult(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "result", len(data))
		}
	}
	return res, docHash, false, nil
}

// RenderWithCacheInfo renders the view selected by opts.Path and returns
// cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res graph.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	resultData, err := graph.MarshalResult(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize result for cache key: %w", err)
	}
	resultHash := cache.Hash(resultData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.formats))
	for _, f := range opts.formats {
		key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(string(f)))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[string(f)] = data
	}
	if len(artifacts) == len(opts.formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := Render(ctx, res, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper around RenderWithCacheInfo.
func (r *Runner) Render(ctx context.Context, res graph.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Render produces every requested format of the view at opts.Path, without
// caching.
func Render(ctx context.Context, res graph.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	v, err := view.Resolve(res, opts.Path)
	if err != nil {
		return nil, err
	}

	title := res.Document
	if len(opts.Path) > 0 {
		title = strings.Join(append([]string{title}, opts.Path...), " > ")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	svgOpts := []render.SVGOption{render.WithTitle(title)}
	if ids := labelIDs(v, opts.Highlight); len(ids) > 0 {
		svgOpts = append(svgOpts, render.WithHighlight(ids...))
	}

	artifacts := make(map[string][]byte, len(opts.formats))
	for _, f := range opts.formats {
		data, err := render.Render(ctx, v, f, opts.engine, svgOpts...)
		if err != nil {
			err = fmt.Errorf("render %s: %w", f, err)
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, err
		}
		artifacts[string(f)] = data
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, nil
}

// labelIDs returns the IDs of nodes in v whose label is in labels.
func labelIDs(v graph.View, labels []string) []string {
	var ids []string
	for _, n := range v.Nodes {
		if slices.Contains(labels, n.Label) {
			ids = append(ids, n.ID)
		}
	}
	return ids
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
