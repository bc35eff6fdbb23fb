package forcegraph

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/dag"
	"github.com/matzehuels/forcegraph/pkg/engine"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/sim"
)

// ForceGraph composes an engine, a lifecycle controller and a render
// pipeline over one graph. It is not safe for concurrent use.
type ForceGraph struct {
	surface render.Surface
	eng     engine.Engine
	ctrl    *sim.Controller
	pipe    *render.Pipeline
	logger  *log.Logger
	now     func() time.Time

	data  *graph.Data
	links []*graph.Link
	dirty bool

	dagMode          layout.Mode
	dagLevelDistance float64
	dagNodeFilter    layout.NodeFilter
	onDAGError       func(loop []string)
	depths           dag.DepthMap
	levelDistance    float64

	simOpts   sim.Options
	renderCfg render.Config

	nodeRelSize   float64
	nodeVal       graph.NodeFunc[float64]
	nodeColor     graph.NodeFunc[string]
	particleCount graph.LinkFunc[float64]

	onUpdate       func()
	onFinishUpdate func()
}

// New returns a graph painting on surface. A nil surface runs the
// simulation headless; use [ForceGraph.Paint] to draw snapshots.
func New(surface render.Surface, opts ...Option) *ForceGraph {
	f := &ForceGraph{
		surface:     surface,
		logger:      log.Default(),
		data:        &graph.Data{},
		simOpts:     sim.DefaultOptions(),
		renderCfg:   render.DefaultConfig(),
		nodeRelSize: DefaultNodeRelSize,
		dirty:       true,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.eng == nil {
		f.eng = engine.NewSimulation()
	}
	if f.onDAGError == nil {
		f.onDAGError = func(loop []string) {
			f.logger.Warn("cycle in dag", "path", loop)
		}
	}
	f.applyNodePainter()

	ctrlOpts := []sim.Option{sim.WithLogger(f.logger)}
	if f.now != nil {
		ctrlOpts = append(ctrlOpts, sim.WithClock(f.now))
	}
	f.ctrl = sim.New(f.eng, f.simOpts, ctrlOpts...)
	f.pipe = render.NewPipeline(f.renderCfg)
	return f
}

func (f *ForceGraph) applyNodePainter() {
	if f.renderCfg.NodePaint == nil {
		f.renderCfg.NodePaint = render.CircleNodes(f.nodeRelSize, f.nodeVal, f.nodeColor)
	}
}

// =============================================================================
// Configuration
// =============================================================================

// GraphData returns the current graph.
func (f *ForceGraph) GraphData() *graph.Data { return f.data }

// SetGraphData replaces the graph. The simulation pauses until the next
// update.
func (f *ForceGraph) SetGraphData(d *graph.Data) {
	if d == nil {
		d = &graph.Data{}
	}
	f.data = d
	f.markDirty()
}

// DAGMode returns the active DAG mode.
func (f *ForceGraph) DAGMode() layout.Mode { return f.dagMode }

// SetDAGMode changes the DAG mode. Switching to [layout.ModeNone] releases
// every pinned coordinate immediately.
func (f *ForceGraph) SetDAGMode(m layout.Mode) {
	f.dagMode = m
	if !m.Enabled() {
		layout.Release(f.data.Nodes)
	}
	f.markDirty()
}

// SetDAGLevelDistance sets the level spacing; zero selects the automatic
// distance.
func (f *ForceGraph) SetDAGLevelDistance(d float64) {
	f.dagLevelDistance = d
	f.markDirty()
}

// SetDAGNodeFilter restricts DAG constraints to matching nodes.
func (f *ForceGraph) SetDAGNodeFilter(filter layout.NodeFilter) {
	f.dagNodeFilter = filter
	f.markDirty()
}

// SetParticles changes the per-link particle count.
func (f *ForceGraph) SetParticles(count graph.LinkFunc[float64]) {
	f.particleCount = count
	f.markDirty()
}

// SimulationOptions returns the engine tuning and cooldown policy.
func (f *ForceGraph) SimulationOptions() sim.Options { return f.ctrl.Options() }

// SetSimulationOptions changes tuning without reseeding the simulation.
func (f *ForceGraph) SetSimulationOptions(opts sim.Options) {
	f.simOpts = opts
	f.ctrl.SetOptions(opts)
}

// RenderConfig returns the render configuration.
func (f *ForceGraph) RenderConfig() render.Config { return f.pipe.Config() }

// SetRenderConfig changes how frames are painted. A nil NodePaint selects
// the default circle painter.
func (f *ForceGraph) SetRenderConfig(cfg render.Config) {
	f.renderCfg = cfg
	f.applyNodePainter()
	f.pipe.SetConfig(f.renderCfg)
}

// SetScale sets the zoom factor passed to painters.
func (f *ForceGraph) SetScale(scale float64) {
	f.renderCfg.Scale = scale
	f.pipe.SetConfig(f.renderCfg)
}

func (f *ForceGraph) markDirty() {
	f.dirty = true
	f.ctrl.Pause()
}

// =============================================================================
// Lifecycle
// =============================================================================

// Update reseeds the simulation from the current configuration: links are
// resolved, particles rebuilt, the engine reset, DAG depths recomputed and
// constraints applied, then warmup ticks run and the cooldown restarts.
func (f *ForceGraph) Update() {
	f.ctrl.Pause()
	if f.onUpdate != nil {
		f.onUpdate()
	}

	links, dropped := f.data.Resolve()
	if dropped > 0 {
		f.logger.Warn("links reference unknown nodes", "dropped", dropped)
	}
	f.links = links

	if !f.renderCfg.Shadow {
		f.pipe.ResetParticles(f.data.Links, f.particleCount)
	}

	nodes := f.data.Nodes
	f.ctrl.Configure(nodes, links, func(eng engine.Engine) {
		f.depths = nil
		if f.dagMode.Enabled() {
			f.depths = layout.ComputeDepths(nodes, links, f.dagNodeFilter, f.onDAGError)
		}
		f.levelDistance = layout.Apply(eng, nodes, f.depths, layout.Constraints{
			Mode:          f.dagMode,
			LevelDistance: f.dagLevelDistance,
			NodeFilter:    f.dagNodeFilter,
		})
	})
	f.dirty = false

	f.logger.Debug("graph updated", "nodes", len(nodes), "links", len(links), "dag", f.dagMode, "maxDepth", f.depths.Max())
	if f.onFinishUpdate != nil {
		f.onFinishUpdate()
	}
}

// TickFrame applies pending updates, advances the simulation by one frame
// and paints it. It returns the frame statistics; without a surface nothing
// is painted and the statistics are zero.
func (f *ForceGraph) TickFrame() render.FrameStats {
	if f.dirty {
		f.Update()
	}
	f.ctrl.AdvanceFrame()
	if f.surface == nil {
		return render.FrameStats{}
	}
	return f.pipe.Frame(f.surface, f.data.Nodes, f.data.Links)
}

// Paint draws the current state on s without advancing the simulation or
// the particles.
func (f *ForceGraph) Paint(s render.Surface) render.FrameStats {
	stats := render.FrameStats{Nodes: f.pipe.PaintNodes(s, f.data.Nodes)}
	stats.Links, stats.Batches = f.pipe.PaintLinks(s, f.data.Links)
	stats.Particles = f.pipe.PaintParticles(s, f.data.Links)
	return stats
}

// Run ticks frames until the simulation stops or maxFrames is reached
// (zero means no limit) and returns the number of frames run.
func (f *ForceGraph) Run(maxFrames int) int {
	frames := 0
	for maxFrames <= 0 || frames < maxFrames {
		f.TickFrame()
		frames++
		if f.ctrl.State() != sim.Running {
			break
		}
	}
	return frames
}

// State returns the lifecycle state.
func (f *ForceGraph) State() sim.State { return f.ctrl.State() }

// Reheat restarts the simulation at full energy.
func (f *ForceGraph) Reheat() { f.ctrl.Reheat() }

// ResetCountdown restarts the cooldown without changing energy.
func (f *ForceGraph) ResetCountdown() { f.ctrl.ResetCountdown() }

// EmitParticle sends a single particle along l.
func (f *ForceGraph) EmitParticle(l *graph.Link) { f.pipe.EmitParticle(l) }

// Force returns the named engine force, or nil.
func (f *ForceGraph) Force(name string) engine.Force { return f.eng.Force(name) }

// SetForce installs or removes a named engine force.
func (f *ForceGraph) SetForce(name string, force engine.Force) { f.eng.SetForce(name, force) }

// Engine returns the driven engine.
func (f *ForceGraph) Engine() engine.Engine { return f.eng }

// Links returns the links resolved by the last update.
func (f *ForceGraph) Links() []*graph.Link { return f.links }

// Depths returns the depths computed by the last update; nil when DAG mode
// is off.
func (f *ForceGraph) Depths() dag.DepthMap { return f.depths }

// LevelDistance returns the level spacing used by the last update.
func (f *ForceGraph) LevelDistance() float64 { return f.levelDistance }

// ControlPoints returns the curve controls computed for a link in the last
// painted frame.
func (f *ForceGraph) ControlPoints(l *graph.Link) (render.ControlPoints, bool) {
	return f.pipe.ControlPoints(l)
}
