package forcegraph

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/engine"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/sim"
)

// DefaultNodeRelSize is the circle radius per unit of sqrt(val).
const DefaultNodeRelSize = 4.0

// Option configures a ForceGraph at construction.
type Option func(*ForceGraph)

// WithEngine replaces the default [engine.Simulation].
func WithEngine(e engine.Engine) Option {
	return func(f *ForceGraph) {
		if e != nil {
			f.eng = e
		}
	}
}

// WithLogger sets the logger used by the graph and its controller.
func WithLogger(l *log.Logger) Option {
	return func(f *ForceGraph) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithClock replaces time.Now for cooldown accounting.
func WithClock(now func() time.Time) Option {
	return func(f *ForceGraph) { f.now = now }
}

// WithGraphData sets the initial graph.
func WithGraphData(d *graph.Data) Option {
	return func(f *ForceGraph) { f.data = d }
}

// WithDAGMode enables DAG layout constraints.
func WithDAGMode(m layout.Mode) Option {
	return func(f *ForceGraph) { f.dagMode = m }
}

// WithDAGLevelDistance fixes the spacing between depth levels; zero keeps
// the automatic distance.
func WithDAGLevelDistance(d float64) Option {
	return func(f *ForceGraph) { f.dagLevelDistance = d }
}

// WithDAGNodeFilter restricts DAG constraints to matching nodes.
func WithDAGNodeFilter(filter layout.NodeFilter) Option {
	return func(f *ForceGraph) { f.dagNodeFilter = filter }
}

// WithDAGErrorHandler receives cycles found while computing depths. The
// default logs a warning.
func WithDAGErrorHandler(fn func(loop []string)) Option {
	return func(f *ForceGraph) { f.onDAGError = fn }
}

// WithSimulation replaces the engine tuning and cooldown policy.
func WithSimulation(opts sim.Options) Option {
	return func(f *ForceGraph) { f.simOpts = opts }
}

// WithRender replaces the render configuration. A nil NodePaint keeps the
// default circle painter.
func WithRender(cfg render.Config) Option {
	return func(f *ForceGraph) { f.renderCfg = cfg }
}

// WithNodeRelSize sets the default painter's radius per unit of sqrt(val).
func WithNodeRelSize(size float64) Option {
	return func(f *ForceGraph) { f.nodeRelSize = size }
}

// WithNodeStyle sets the val and color accessors of the default painter.
func WithNodeStyle(val graph.NodeFunc[float64], color graph.NodeFunc[string]) Option {
	return func(f *ForceGraph) { f.nodeVal, f.nodeColor = val, color }
}

// WithParticles sets the per-link count of repeating particles.
func WithParticles(count graph.LinkFunc[float64]) Option {
	return func(f *ForceGraph) { f.particleCount = count }
}

// WithOnUpdate runs fn at the start of every update.
func WithOnUpdate(fn func()) Option {
	return func(f *ForceGraph) { f.onUpdate = fn }
}

// WithOnFinishUpdate runs fn at the end of every update.
func WithOnFinishUpdate(fn func()) Option {
	return func(f *ForceGraph) { f.onFinishUpdate = fn }
}
