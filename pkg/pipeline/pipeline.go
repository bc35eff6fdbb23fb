// Package pipeline runs a graph through simulation and rendering in one
// batch step.
//
// This is the shared path behind `forcegraph render` and the preview server:
// both load a graph and a scene configuration, let the simulation settle,
// and encode the final frame. Centralizing it keeps caching and output
// encoding identical across entry points.
//
// # Stages
//
//  1. Layout: run the simulation until it cools down or the frame cap is
//     reached. The settled positions are cached per (graph, scene).
//  2. Render: paint the settled frame onto one surface per output format
//     (PNG, SVG) or encode the positioned graph (JSON). Artifacts are
//     cached per (layout, format, canvas).
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Graph:   data,
//	    Config:  cfg,
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultFrames caps the frames simulated per run. At the default alpha
// decay the simulation cools below its minimum after roughly 300 ticks.
const DefaultFrames = 300

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ContentTypes maps output formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatJSON: "application/json",
}

// =============================================================================
// Options
// =============================================================================

// Options describes one pipeline run.
type Options struct {
	// Graph is the input graph. The pipeline never mutates it.
	Graph *graph.Data

	// Config is the scene configuration; nil selects [config.Default].
	Config *config.Config

	// Frames caps the simulated frames; zero selects [DefaultFrames].
	Frames int

	// Formats lists the outputs to produce; empty selects SVG.
	Formats []string

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool

	Logger *log.Logger
}

// ValidateFormat checks a single output format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want svg, png or json)", format)
	}
	return nil
}

// ValidateFormats checks every requested format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults fills in defaults and validates the options.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Graph == nil {
		return errors.New(errors.ErrCodeInvalidInput, "graph is required")
	}
	if o.Config == nil {
		o.Config = config.Default()
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Frames < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "frames must not be negative (got %d)", o.Frames)
	}
	if o.Frames == 0 {
		o.Frames = DefaultFrames
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns the cache key options for the layout stage.
func (o *Options) LayoutKeyOpts(sceneHash string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{SceneHash: sceneHash, Frames: o.Frames}
}

// ArtifactKeyOpts returns the cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	c := o.Config.Canvas
	return cache.ArtifactKeyOpts{
		Format:     format,
		Width:      c.Width,
		Height:     c.Height,
		Scale:      c.Scale,
		Background: c.Background,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result holds the output of a pipeline run.
type Result struct {
	// Graph is a positioned copy of the input.
	Graph *graph.Data

	// Artifacts maps format to encoded bytes.
	Artifacts map[string][]byte

	// GraphHash identifies the input graph.
	GraphHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats reports work done by a run.
type Stats struct {
	Nodes      int
	Links      int
	Frames     int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}
