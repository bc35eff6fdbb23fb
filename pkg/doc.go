// Package pkg provides the core libraries for forcegraph.
//
// # Overview
//
// forcegraph runs a force-directed simulation over a node-link graph,
// optionally constrains it to DAG levels, and paints each frame to a
// drawing surface. The pkg directory is organized into three areas:
//
//  1. Domain - graph data, DAG depths, layout constraints, physics
//  2. Frame loop - simulation lifecycle and the render pipeline
//  3. Infrastructure - scene config, caching, errors and hooks
//
// # Architecture
//
// The data flow for one rendered frame:
//
//	JSON graph + TOML scene
//	         ↓
//	    [graph] package (decode, resolve link endpoints)
//	         ↓
//	    [dag] + [layout] packages (depths, DAG constraints)
//	         ↓
//	    [engine] + [sim] packages (tick physics, cooldown)
//	         ↓
//	    [render] package (links, arrows, particles, nodes)
//	         ↓
//	    SVG/PNG/JSON output
//
// [forcegraph] ties these together behind one type, and [pipeline] runs it
// to rest with caching for the CLI and the preview server.
//
// # Quick Start
//
//	data, _ := graph.ReadFile("deps.json")
//	cfg, _ := config.Load("scene.toml")
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    Graph:   data,
//	    Config:  cfg,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	os.WriteFile("deps.svg", result.Artifacts[pipeline.FormatSVG], 0o644)
//
// # Main Packages
//
// ## Domain
//
// [graph] - Nodes, links and the JSON node-link format. Links name their
// endpoints by id until [graph.Data.Resolve] binds them.
//
// [dag] - Topological depth resolution. Roots sit at depth 0; cycles are
// reported and broken.
//
// [layout] - DAG modes (td, bu, lr, rl, radialin, radialout) and the
// constraints that pin nodes to their level.
//
// [engine] - The physics engine: link, charge, center and radial forces
// over an alpha schedule.
//
// ## Frame Loop
//
// [sim] - Simulation lifecycle: warmup, per-frame ticking, cooldown by
// ticks, time or energy, and reheating.
//
// [render] - Per-frame painting of links, arrows, particles and nodes.
// Backends live in render/surface (vector SVG, raster PNG, recorder).
//
// [forcegraph] - The component that wires engine, controller and pipeline.
//
// ## Infrastructure
//
// [config] - TOML scene files with validation.
//
// [pipeline] - Simulate-to-rest and render, with layout and artifact caching.
//
// [cache] - File, Redis and null cache backends.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for engine ticks, simulation events, cache and
// pipeline runs.
//
// # Testing
//
//	go test ./...                  # All tests
//	go test ./pkg/dag/...          # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// Redis cache tests run when FORCEGRAPH_TEST_REDIS_URL is set.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/graph
// [graph.Data.Resolve]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/graph#Data.Resolve
// [dag]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/dag
// [layout]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/layout
// [engine]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/engine
// [sim]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/sim
// [render]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/render
// [forcegraph]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/forcegraph
// [config]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/config
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/observability
package pkg
