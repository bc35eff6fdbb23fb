package render

import (
	"math"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// Pipeline paints frames and owns per-link scratch state.
type Pipeline struct {
	cfg           Config
	controlPoints map[*graph.Link]ControlPoints
	particles     map[*graph.Link][]particle
}

// NewPipeline returns a pipeline painting with cfg.
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{
		cfg:           cfg,
		controlPoints: make(map[*graph.Link]ControlPoints),
		particles:     make(map[*graph.Link][]particle),
	}
}

// Config returns the current configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// SetConfig replaces the configuration. Scratch state is kept.
func (p *Pipeline) SetConfig(cfg Config) { p.cfg = cfg }

// FrameStats summarizes one painted frame.
type FrameStats struct {
	Nodes     int // nodes handed to the node painter
	Links     int // links stroked by the default pass
	Batches   int // stroke calls issued by the default pass
	Particles int // particles drawn
}

// Frame paints nodes, then links, then advances and paints particles.
func (p *Pipeline) Frame(s Surface, nodes []*graph.Node, links []*graph.Link) FrameStats {
	stats := FrameStats{Nodes: p.PaintNodes(s, nodes)}
	stats.Links, stats.Batches = p.PaintLinks(s, links)
	p.AdvanceParticles(links)
	stats.Particles = p.PaintParticles(s, links)
	observability.Render().OnFrame(stats.Nodes, stats.Links, stats.Batches, stats.Particles)
	return stats
}

// PaintNodes runs the node painter on every visible node, each inside its
// own Save/Restore scope, and returns the number painted. Without a node
// painter the pass is skipped.
func (p *Pipeline) PaintNodes(s Surface, nodes []*graph.Node) int {
	if p.cfg.NodePaint == nil {
		return 0
	}
	scale := p.cfg.scale()
	painted := 0
	for _, n := range nodes {
		if !p.cfg.nodeVisible(n) {
			continue
		}
		s.Save()
		p.cfg.NodePaint(n, s, scale, p.cfg.Shadow)
		s.Restore()
		painted++
	}
	return painted
}

// DefaultNodeColor fills nodes without a color.
const DefaultNodeColor = "rgba(31,120,180,0.92)"

// CircleNodes returns a painter drawing each node as a filled circle of
// radius sqrt(max(val,0) or 1) * relSize. Nil accessors read Node.Val and
// Node.Color.
func CircleNodes(relSize float64, val graph.NodeFunc[float64], color graph.NodeFunc[string]) NodePainter {
	if val == nil {
		val = graph.NodeVal
	}
	if color == nil {
		color = graph.NodeColor
	}
	return func(n *graph.Node, s Surface, _ float64, _ bool) {
		v := math.Max(0, val(n))
		if v == 0 {
			v = 1
		}
		c := color(n)
		if c == "" {
			c = DefaultNodeColor
		}
		s.BeginPath()
		s.Arc(n.X, n.Y, math.Sqrt(v)*relSize, 0, 2*math.Pi)
		s.SetFillStyle(c)
		s.Fill()
	}
}
