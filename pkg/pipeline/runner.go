package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/forcegraph"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/sim"
)

// Runner executes the pipeline with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
	}
}

// Layout is a settled scene ready to paint.
type Layout struct {
	// Scene holds the positioned graph with links resolved and DAG
	// constraints applied.
	Scene *forcegraph.ForceGraph

	// Encoded is the positioned graph as JSON.
	Encoded []byte

	// SceneHash identifies the configuration the layout was computed with.
	SceneHash string

	// Frames is the number of frames simulated; zero on a cache hit.
	Frames int
}

// Execute runs the layout and render stages.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Pipeline().OnRunStart(ctx, len(opts.Graph.Nodes), opts.Formats)
	result, err := r.execute(ctx, opts)
	frames := 0
	if result != nil {
		frames = result.Stats.Frames
	}
	observability.Pipeline().OnRunComplete(ctx, frames, time.Since(start), err)
	return result, err
}

func (r *Runner) execute(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{}

	// Stage 1: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Graph = l.Scene.GraphData()
	result.GraphHash = graphHash(opts.Graph)
	result.Stats.Nodes = len(result.Graph.Nodes)
	result.Stats.Links = len(l.Scene.Links())
	result.Stats.Frames = l.Frames
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", result.Stats.Nodes,
		"links", result.Stats.Links,
		"frames", l.Frames,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo settles the graph and reports whether the positions
// came from cache. The input graph is copied, never mutated.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, opts Options) (*Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	input, err := graph.Marshal(opts.Graph)
	if err != nil {
		return nil, false, err
	}
	sceneHash, err := cache.HashJSON(opts.Config)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash scene config")
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(input), opts.LayoutKeyOpts(sceneHash))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit := r.cacheGet(ctx, "layout", cacheKey); hit {
			if positioned, err := graph.Unmarshal(data); err == nil {
				scene := r.newScene(positioned, opts)
				restore(scene)
				return &Layout{Scene: scene, Encoded: data, SceneHash: sceneHash}, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	work, err := graph.Unmarshal(input)
	if err != nil {
		return nil, false, err
	}
	scene := r.newScene(work, opts)
	frames, err := Simulate(ctx, scene, opts.Frames)
	if err != nil {
		return nil, false, err
	}

	encoded, err := graph.Marshal(scene.GraphData())
	if err != nil {
		return nil, false, err
	}
	r.cacheSet(ctx, "layout", cacheKey, encoded, cache.TTLLayout)

	return &Layout{Scene: scene, Encoded: encoded, SceneHash: sceneHash, Frames: frames}, false, nil
}

// RenderWithCacheInfo encodes every requested format and reports whether
// all of them came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutHash := cache.Hash(append([]byte(l.SceneHash), l.Encoded...))
	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		keys[format] = r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, hit := r.cacheGet(ctx, "artifact", keys[format])
			if !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		data, err := Render(l.Scene, opts.Config.Canvas, format)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		r.cacheSet(ctx, "artifact", keys[format], data, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// Simulate runs frames on a headless scene until the simulation stops, the
// frame cap is reached or ctx is cancelled. It returns the frames run.
func Simulate(ctx context.Context, scene *forcegraph.ForceGraph, maxFrames int) (int, error) {
	scene.Update()
	frames := 0
	for maxFrames <= 0 || frames < maxFrames {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		scene.TickFrame()
		frames++
		if scene.State() != sim.Running {
			break
		}
	}
	return frames, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) newScene(d *graph.Data, opts Options) *forcegraph.ForceGraph {
	fgOpts := append(opts.Config.Options(),
		forcegraph.WithGraphData(d),
		forcegraph.WithLogger(opts.Logger),
	)
	return forcegraph.New(nil, fgOpts...)
}

// restore prepares a cached layout for painting: links are resolved and
// constraints re-applied, but no warmup ticks move the stored positions.
func restore(scene *forcegraph.ForceGraph) {
	opts := scene.SimulationOptions()
	warmup := opts.WarmupTicks
	opts.WarmupTicks = 0
	scene.SetSimulationOptions(opts)
	scene.Update()
	opts.WarmupTicks = warmup
	scene.SetSimulationOptions(opts)
}

func (r *Runner) cacheGet(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, hit
}

func (r *Runner) cacheSet(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func graphHash(d *graph.Data) string {
	data, err := graph.Marshal(d)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
