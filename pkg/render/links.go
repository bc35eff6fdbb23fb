package render

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// loopSpread scales the control offsets of self-loops.
const loopSpread = 70.0

// ControlPoints are the curve controls of a link: nil for a straight line,
// one point (x, y) for a quadratic curve, two points (x1, y1, x2, y2) for a
// cubic self-loop.
type ControlPoints []float64

// Quadratic reports whether the points describe a single control point.
func (c ControlPoints) Quadratic() bool { return len(c) == 2 }

// Cubic reports whether the points describe two control points.
func (c ControlPoints) Cubic() bool { return len(c) == 4 }

// ComputeControlPoints returns the control points of a link with the given
// curvature between two positions. Curvature zero yields nil. For distinct
// endpoints the single control point sits length*curvature from the
// midpoint, perpendicular to the segment on its -90 degree side. Coincident
// endpoints yield a loop offset by 70*curvature on both axes.
func ComputeControlPoints(x1, y1, x2, y2, curvature float64) ControlPoints {
	if curvature == 0 {
		return nil
	}
	l := math.Hypot(x2-x1, y2-y1)
	if l > 0 {
		a := math.Atan2(y2-y1, x2-x1)
		d := l * curvature
		return ControlPoints{
			(x1+x2)/2 + d*math.Cos(a-math.Pi/2),
			(y1+y2)/2 + d*math.Sin(a-math.Pi/2),
		}
	}
	d := curvature * loopSpread
	return ControlPoints{x2, y2 - d, x2 + d, y2}
}

// ControlPoints returns the control points computed for a link in the last
// link pass.
func (p *Pipeline) ControlPoints(l *graph.Link) (ControlPoints, bool) {
	cp, ok := p.controlPoints[l]
	return cp, ok
}

func (p *Pipeline) updateControlPoints(l *graph.Link) {
	curvature := p.cfg.curvature(l)
	if curvature == 0 {
		p.controlPoints[l] = nil
		return
	}
	if !l.Positioned() {
		return
	}
	p.controlPoints[l] = ComputeControlPoints(l.Source.X, l.Source.Y, l.Target.X, l.Target.Y, curvature)
}

// tracePath appends the link's segment or curve to the current path.
func tracePath(s Surface, l *graph.Link, cp ControlPoints) {
	start, end := l.Source, l.Target
	s.MoveTo(start.X, start.Y)
	switch {
	case cp.Quadratic():
		s.QuadraticCurveTo(cp[0], cp[1], end.X, end.Y)
	case cp.Cubic():
		s.BezierCurveTo(cp[0], cp[1], cp[2], cp[3], end.X, end.Y)
	default:
		s.LineTo(end.X, end.Y)
	}
}

type batch struct {
	color string
	width float64
	dash  []float64
	links []*graph.Link

	colorRank, widthRank int
}

// PaintLinks runs the link pass and returns the number of links stroked by
// the default painter and the number of stroke batches.
func (p *Pipeline) PaintLinks(s Surface, links []*graph.Link) (stroked, batches int) {
	visible := make([]*graph.Link, 0, len(links))
	for _, l := range links {
		if p.cfg.linkVisible(l) {
			visible = append(visible, l)
			p.updateControlPoints(l)
		}
	}

	var before, after []*graph.Link
	defaults := visible
	if p.cfg.LinkPaint != nil {
		var replace, other []*graph.Link
		for _, l := range visible {
			switch p.cfg.paintMode(l) {
			case PaintBefore:
				before = append(before, l)
			case PaintAfter:
				after = append(after, l)
			case PaintReplace:
				replace = append(replace, l)
			default:
				other = append(other, l)
			}
		}
		defaults = slices.Concat(before, after, other)
		before = append(before, replace...)
	}

	p.paintCustom(s, before)

	groups := p.batch(defaults)
	pad := 0.0
	if p.cfg.Shadow {
		pad = shadowPadding
	}
	scale := p.cfg.scale()

	s.Save()
	for _, b := range groups {
		color := b.color
		if color == "" {
			color = DefaultLinkColor
		}
		width := b.width
		if width == 0 {
			width = 1
		}

		s.BeginPath()
		n := 0
		for _, l := range b.links {
			if !l.Positioned() {
				continue
			}
			tracePath(s, l, p.controlPoints[l])
			n++
		}
		s.SetStrokeStyle(color)
		s.SetLineWidth(width/scale + pad)
		s.SetLineDash(b.dash)
		s.Stroke()
		stroked += n
	}
	s.Restore()

	p.paintCustom(s, after)
	return stroked, len(groups)
}

func (p *Pipeline) paintCustom(s Surface, links []*graph.Link) {
	scale := p.cfg.scale()
	for _, l := range links {
		if !l.Positioned() {
			continue
		}
		s.Save()
		p.cfg.LinkPaint(l, s, scale, p.cfg.Shadow)
		s.Restore()
	}
}

// batch groups links by (color, width, dash). Groups are ordered by the
// first appearance of their color, then of their width within that color,
// then of their dash pattern.
func (p *Pipeline) batch(links []*graph.Link) []*batch {
	type key struct {
		color string
		width float64
		dash  string
	}
	type widthKey struct {
		color string
		width float64
	}

	index := make(map[key]*batch)
	colorRank := make(map[string]int)
	widthRank := make(map[widthKey]int)
	var groups []*batch

	for _, l := range links {
		color, width, dash := p.cfg.color(l), p.cfg.width(l), p.cfg.dash(l)
		k := key{color, width, dashKey(dash)}
		b, ok := index[k]
		if !ok {
			if _, seen := colorRank[color]; !seen {
				colorRank[color] = len(colorRank)
			}
			wk := widthKey{color, width}
			if _, seen := widthRank[wk]; !seen {
				widthRank[wk] = len(widthRank)
			}
			b = &batch{
				color:     color,
				width:     width,
				dash:      dash,
				colorRank: colorRank[color],
				widthRank: widthRank[wk],
			}
			index[k] = b
			groups = append(groups, b)
		}
		b.links = append(b.links, l)
	}

	slices.SortStableFunc(groups, func(a, b *batch) int {
		return cmp.Or(cmp.Compare(a.colorRank, b.colorRank), cmp.Compare(a.widthRank, b.widthRank))
	})
	return groups
}

func dashKey(dash []float64) string {
	if len(dash) == 0 {
		return ""
	}
	return fmt.Sprint(dash)
}
