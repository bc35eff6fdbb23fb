package render

import (
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// particle is a marker travelling along a link. Progress runs from 0 at
// the source to 1 at the target.
type particle struct {
	progress  float64
	singleHop bool
}

// ResetParticles rebuilds every link's repeating particles from count
// (rounded absolute value) and drops pending single-hop particles. Repeating
// particles are spread evenly: the i-th of n starts at progress i/n.
// Control points of links no longer in links are dropped.
func (p *Pipeline) ResetParticles(links []*graph.Link, count graph.LinkFunc[float64]) {
	clear(p.particles)
	live := make(map[*graph.Link]struct{}, len(links))
	for _, l := range links {
		live[l] = struct{}{}
	}
	maps.DeleteFunc(p.controlPoints, func(l *graph.Link, _ ControlPoints) bool {
		_, ok := live[l]
		return !ok
	})
	if count == nil {
		return
	}
	for _, l := range links {
		n := int(math.Round(math.Abs(count(l))))
		if n == 0 {
			continue
		}
		ps := make([]particle, n)
		for i := range ps {
			ps[i].progress = float64(i) / float64(n)
		}
		p.particles[l] = ps
	}
}

// EmitParticle adds a single-hop particle at the source of l. It is
// removed once it reaches the target.
func (p *Pipeline) EmitParticle(l *graph.Link) {
	if l == nil {
		return
	}
	p.particles[l] = append(p.particles[l], particle{singleHop: true})
}

// Particles returns the progress of every particle on a link.
func (p *Pipeline) Particles(l *graph.Link) []float64 {
	ps := p.particles[l]
	out := make([]float64, len(ps))
	for i, pt := range ps {
		out[i] = pt.progress
	}
	return out
}

// AdvanceParticles moves the particles of every visible, positioned link
// by the absolute value of its particle speed. Repeating particles wrap at
// 1; single-hop particles are removed.
func (p *Pipeline) AdvanceParticles(links []*graph.Link) {
	for _, l := range links {
		ps, ok := p.particles[l]
		if !ok || !p.cfg.linkVisible(l) || !l.Positioned() {
			continue
		}
		speed := 0.0
		if p.cfg.ParticleSpeed != nil {
			speed = math.Abs(p.cfg.ParticleSpeed(l))
		}
		for i := range ps {
			ps[i].progress += speed
		}
		ps = slices.DeleteFunc(ps, func(pt particle) bool {
			return pt.singleHop && pt.progress >= 1
		})
		for i := range ps {
			if ps[i].progress >= 1 {
				ps[i].progress = math.Mod(ps[i].progress, 1)
			}
		}
		if len(ps) == 0 {
			delete(p.particles, l)
			continue
		}
		p.particles[l] = ps
	}
}

// PaintParticles draws every particle of visible, positioned links as a
// filled circle of diameter width/scale and returns the number drawn.
// Nothing is drawn on shadow surfaces.
func (p *Pipeline) PaintParticles(s Surface, links []*graph.Link) int {
	if p.cfg.Shadow {
		return 0
	}
	scale := p.cfg.scale()
	drawn := 0
	for _, l := range links {
		ps := p.particles[l]
		if len(ps) == 0 || !p.cfg.linkVisible(l) || !l.Positioned() {
			continue
		}

		width := 0.0
		if p.cfg.ParticleWidth != nil {
			width = p.cfg.ParticleWidth(l)
		}
		if width <= 0 {
			continue
		}
		color := ""
		if p.cfg.ParticleColor != nil {
			color = p.cfg.ParticleColor(l)
		}
		if color == "" {
			color = p.cfg.color(l)
		}
		if color == "" {
			color = DefaultLinkColor
		}
		r := width / 2 / scale
		cp := p.controlPoints[l]

		s.Save()
		s.SetFillStyle(color)
		s.BeginPath()
		for _, pt := range ps {
			x, y := PointAt(l.Source.X, l.Source.Y, l.Target.X, l.Target.Y, cp, pt.progress)
			s.MoveTo(x+r, y)
			s.Arc(x, y, r, 0, 2*math.Pi)
			drawn++
		}
		s.Fill()
		s.Restore()
	}
	return drawn
}

// PointAt returns the point at parameter t along a link drawn from
// (x1, y1) to (x2, y2) with the given control points.
func PointAt(x1, y1, x2, y2 float64, cp ControlPoints, t float64) (x, y float64) {
	u := 1 - t
	switch {
	case cp.Quadratic():
		x = u*u*x1 + 2*u*t*cp[0] + t*t*x2
		y = u*u*y1 + 2*u*t*cp[1] + t*t*y2
	case cp.Cubic():
		x = u*u*u*x1 + 3*u*u*t*cp[0] + 3*u*t*t*cp[2] + t*t*t*x2
		y = u*u*u*y1 + 3*u*u*t*cp[1] + 3*u*t*t*cp[3] + t*t*t*y2
	default:
		x = x1 + (x2-x1)*t
		y = y1 + (y2-y1)*t
	}
	return x, y
}
