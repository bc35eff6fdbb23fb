package engine

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// jiggle replaces a zero displacement so coincident nodes can separate.
const jiggle = 1e-6

// =============================================================================
// Link
// =============================================================================

// Link pulls linked nodes toward a rest distance. Strength defaults to
// 1/min(degree(source), degree(target)) so hubs are not over-constrained.
type Link struct {
	Distance float64

	links    []*graph.Link
	strength []float64
	bias     []float64
}

// NewLink returns a link force with rest distance 30.
func NewLink() *Link { return &Link{Distance: 30} }

// Initialize is a no-op; link weights depend only on the link set.
func (f *Link) Initialize([]*graph.Node) {}

// SetLinks replaces the link collection. Links must be resolved; loops and
// unresolved links are ignored.
func (f *Link) SetLinks(links []*graph.Link) {
	f.links = make([]*graph.Link, 0, len(links))
	count := make(map[*graph.Node]int)
	for _, l := range links {
		if !l.Resolved() || l.IsLoop() {
			continue
		}
		f.links = append(f.links, l)
		count[l.Source]++
		count[l.Target]++
	}

	f.strength = make([]float64, len(f.links))
	f.bias = make([]float64, len(f.links))
	for i, l := range f.links {
		cs, ct := float64(count[l.Source]), float64(count[l.Target])
		f.strength[i] = 1 / math.Min(cs, ct)
		f.bias[i] = cs / (cs + ct)
	}
}

// Links returns the links driving the force.
func (f *Link) Links() []*graph.Link { return f.links }

// Apply nudges both endpoints of every link toward the rest distance.
func (f *Link) Apply(alpha float64) {
	for i, l := range f.links {
		src, tgt := l.Source, l.Target
		x := tgt.X + tgt.VX - src.X - src.VX
		y := tgt.Y + tgt.VY - src.Y - src.VY
		if x == 0 {
			x = jiggle
		}
		if y == 0 {
			y = jiggle
		}
		d := math.Hypot(x, y)
		k := (d - f.Distance) / d * alpha * f.strength[i]
		x, y = x*k, y*k

		b := f.bias[i]
		tgt.VX -= x * b
		tgt.VY -= y * b
		src.VX += x * (1 - b)
		src.VY += y * (1 - b)
	}
}

// =============================================================================
// ManyBody
// =============================================================================

// ManyBody applies a mutual force between all nodes: negative strength
// repels. Far-field interactions are approximated with a Barnes-Hut
// quadtree controlled by Theta.
type ManyBody struct {
	Strength    float64
	Theta       float64
	DistanceMin float64
	DistanceMax float64

	nodes []*graph.Node
}

// NewManyBody returns a repulsive many-body force (strength -30, theta 0.9).
func NewManyBody() *ManyBody {
	return &ManyBody{
		Strength:    -30,
		Theta:       0.9,
		DistanceMin: 1,
		DistanceMax: math.Inf(1),
	}
}

// Initialize records the nodes to act on.
func (f *ManyBody) Initialize(nodes []*graph.Node) { f.nodes = nodes }

type body struct{ n *graph.Node }

func (b body) Coord2() r2.Vec  { return r2.Vec{X: b.n.X, Y: b.n.Y} }
func (b body) Mass() float64 { return 1 }

// Apply adds the many-body contribution to every node's velocity.
func (f *ManyBody) Apply(alpha float64) {
	if len(f.nodes) < 2 {
		return
	}
	minSq, maxSq := f.DistanceMin*f.DistanceMin, f.DistanceMax*f.DistanceMax

	law := func(_, _ barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
		d2 := r2.Norm2(v)
		if d2 == 0 || d2 >= maxSq {
			return r2.Vec{}
		}
		if d2 < minSq {
			d2 = math.Sqrt(minSq * d2)
		}
		return r2.Scale(f.Strength*alpha*m2/d2, v)
	}

	particles := make([]barneshut.Particle2, len(f.nodes))
	for i, n := range f.nodes {
		particles[i] = body{n}
	}

	plane, err := barneshut.NewPlane(particles)
	if err != nil {
		// Degenerate extents; fall back to exact pairwise sums.
		f.applyExact(particles, law)
		return
	}
	forces := make([]r2.Vec, len(particles))
	for i, p := range particles {
		forces[i] = plane.ForceOn(p, f.Theta, law)
	}
	for i, n := range f.nodes {
		n.VX += forces[i].X
		n.VY += forces[i].Y
	}
}

func (f *ManyBody) applyExact(particles []barneshut.Particle2, law barneshut.Force2) {
	forces := make([]r2.Vec, len(particles))
	for i, p := range particles {
		for j, q := range particles {
			if i == j {
				continue
			}
			v := r2.Sub(q.Coord2(), p.Coord2())
			forces[i] = r2.Add(forces[i], law(p, q, p.Mass(), q.Mass(), v))
		}
	}
	for i, n := range f.nodes {
		n.VX += forces[i].X
		n.VY += forces[i].Y
	}
}

// =============================================================================
// Center
// =============================================================================

// Center translates all nodes so their mean position is the origin.
type Center struct {
	X, Y     float64
	Strength float64

	nodes []*graph.Node
}

// NewCenter returns a centering force at the origin with strength 1.
func NewCenter() *Center { return &Center{Strength: 1} }

// Initialize records the nodes to act on.
func (f *Center) Initialize(nodes []*graph.Node) { f.nodes = nodes }

// Apply shifts node positions; it does not depend on alpha.
func (f *Center) Apply(float64) {
	if len(f.nodes) == 0 {
		return
	}
	var sx, sy float64
	for _, n := range f.nodes {
		sx += n.X
		sy += n.Y
	}
	count := float64(len(f.nodes))
	dx := (sx/count - f.X) * f.Strength
	dy := (sy/count - f.Y) * f.Strength
	for _, n := range f.nodes {
		n.X -= dx
		n.Y -= dy
	}
}

// =============================================================================
// Radial
// =============================================================================

// Radial pulls each node toward a circle around the origin. Target radius
// and strength are evaluated per node when the force is initialized.
type Radial struct {
	radius   func(*graph.Node) float64
	strength func(*graph.Node) float64

	nodes     []*graph.Node
	radiuses  []float64
	strengths []float64
}

// NewRadial returns a radial force. A nil strength applies 0.1 to every
// node.
func NewRadial(radius, strength func(*graph.Node) float64) *Radial {
	if strength == nil {
		strength = func(*graph.Node) float64 { return 0.1 }
	}
	return &Radial{radius: radius, strength: strength}
}

// Initialize evaluates the radius and strength of every node.
func (f *Radial) Initialize(nodes []*graph.Node) {
	f.nodes = nodes
	f.radiuses = make([]float64, len(nodes))
	f.strengths = make([]float64, len(nodes))
	for i, n := range nodes {
		f.radiuses[i] = f.radius(n)
		f.strengths[i] = f.strength(n)
	}
}

// Target returns the radius and strength evaluated for n.
func (f *Radial) Target(n *graph.Node) (radius, strength float64) {
	return f.radius(n), f.strength(n)
}

// Apply accelerates nodes toward their target radius.
func (f *Radial) Apply(alpha float64) {
	for i, n := range f.nodes {
		dx, dy := n.X, n.Y
		if dx == 0 {
			dx = jiggle
		}
		r := math.Hypot(dx, dy)
		k := (f.radiuses[i] - r) * f.strengths[i] * alpha / r
		n.VX += dx * k
		n.VY += dy * k
	}
}
