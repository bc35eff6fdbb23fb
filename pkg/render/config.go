package render

import "github.com/matzehuels/forcegraph/pkg/graph"

// DefaultLinkColor is used for links without a color.
const DefaultLinkColor = "rgba(0,0,0,0.15)"

// shadowPadding widens strokes on hit-testing surfaces so thin lines stay
// pickable.
const shadowPadding = 2.0

// NodePainter draws one node. scale is the current zoom factor and shadow
// is set when painting an off-screen hit-testing surface.
type NodePainter func(n *graph.Node, s Surface, scale float64, shadow bool)

// LinkPainter draws one link.
type LinkPainter func(l *graph.Link, s Surface, scale float64, shadow bool)

// PaintMode places a custom link painter relative to the default stroke.
type PaintMode string

const (
	// PaintBefore runs the custom painter, then the default stroke.
	PaintBefore PaintMode = "before"
	// PaintAfter strokes the link, then runs the custom painter.
	PaintAfter PaintMode = "after"
	// PaintReplace runs only the custom painter.
	PaintReplace PaintMode = "replace"
)

// Config holds the accessors and callbacks the pipeline reads each frame.
// Nil accessors fall back to the [graph.Link] and [graph.Node] fields.
type Config struct {
	NodeVisibility graph.NodeFunc[bool]
	// NodePaint draws nodes; nil skips the node pass.
	NodePaint NodePainter

	LinkVisibility graph.LinkFunc[bool]
	LinkColor      graph.LinkFunc[string]
	LinkWidth      graph.LinkFunc[float64]
	LinkDash       graph.LinkFunc[[]float64]
	LinkCurvature  graph.LinkFunc[float64]

	// LinkPaint is the custom link painter; LinkPaintMode places it and
	// defaults to PaintReplace.
	LinkPaint     LinkPainter
	LinkPaintMode graph.LinkFunc[PaintMode]

	ParticleSpeed graph.LinkFunc[float64]
	ParticleWidth graph.LinkFunc[float64]
	ParticleColor graph.LinkFunc[string]

	// Scale is the zoom factor; strokes are divided by it so on-screen
	// widths stay constant. Zero means 1.
	Scale float64

	// Shadow marks an off-screen hit-testing surface: strokes are padded
	// and particles are not drawn.
	Shadow bool
}

// DefaultConfig returns link and particle accessors matching the usual
// force-graph defaults: field-based styling, particle speed 0.01 and
// particle width 4.
func DefaultConfig() Config {
	return Config{
		LinkColor:     graph.LinkColor,
		LinkWidth:     graph.LinkWidth,
		LinkDash:      graph.LinkDash,
		LinkCurvature: graph.LinkCurvature,
		ParticleSpeed: graph.ConstLink(0.01),
		ParticleWidth: graph.ConstLink(4.0),
		Scale:         1,
	}
}

func (c *Config) scale() float64 {
	if c.Scale <= 0 {
		return 1
	}
	return c.Scale
}

func (c *Config) nodeVisible(n *graph.Node) bool {
	return c.NodeVisibility == nil || c.NodeVisibility(n)
}

func (c *Config) linkVisible(l *graph.Link) bool {
	return c.LinkVisibility == nil || c.LinkVisibility(l)
}

func (c *Config) color(l *graph.Link) string {
	if c.LinkColor == nil {
		return l.Color
	}
	return c.LinkColor(l)
}

func (c *Config) width(l *graph.Link) float64 {
	if c.LinkWidth == nil {
		return l.Width
	}
	return c.LinkWidth(l)
}

func (c *Config) dash(l *graph.Link) []float64 {
	if c.LinkDash == nil {
		return l.Dash
	}
	return c.LinkDash(l)
}

func (c *Config) curvature(l *graph.Link) float64 {
	if c.LinkCurvature == nil {
		return l.Curvature
	}
	return c.LinkCurvature(l)
}

func (c *Config) paintMode(l *graph.Link) PaintMode {
	if c.LinkPaintMode == nil {
		return PaintReplace
	}
	return c.LinkPaintMode(l)
}
