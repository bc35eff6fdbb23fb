package engine

import (
	"math"
	"slices"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Default tuning, matching d3-force.
const (
	DefaultAlphaDecay    = 0.0228 // 1 - 0.001^(1/300): ~300 ticks to alpha 0.001
	DefaultVelocityDecay = 0.4

	initialRadius = 10.0
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Simulation is the reference [Engine].
type Simulation struct {
	nodes         []*graph.Node
	forces        map[string]Force
	names         []string // forces apply in installation order
	alpha         float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64
	stopped       bool
}

// NewSimulation returns a simulation with link, charge and center forces
// installed and alpha at 1.
func NewSimulation() *Simulation {
	s := &Simulation{
		forces:        make(map[string]Force),
		alpha:         1,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: DefaultVelocityDecay,
	}
	s.SetForce(ForceLink, NewLink())
	s.SetForce(ForceCharge, NewManyBody())
	s.SetForce(ForceCenter, NewCenter())
	return s
}

// SetNodes replaces the node collection. Nodes without coordinates are
// seeded on a phyllotaxis spiral; non-finite velocities are zeroed.
func (s *Simulation) SetNodes(nodes []*graph.Node) {
	s.nodes = nodes
	for i, n := range nodes {
		if n.Fx != nil {
			n.X = *n.Fx
		}
		if n.Fy != nil {
			n.Y = *n.Fy
		}
		if !n.Positioned() {
			r := initialRadius * math.Sqrt(0.5+float64(i))
			a := float64(i) * initialAngle
			x, y := r*math.Cos(a), r*math.Sin(a)
			if n.Fx != nil {
				x = *n.Fx
			}
			if n.Fy != nil {
				y = *n.Fy
			}
			n.SetPosition(x, y)
		}
		if math.IsNaN(n.VX) || math.IsInf(n.VX, 0) {
			n.VX = 0
		}
		if math.IsNaN(n.VY) || math.IsInf(n.VY, 0) {
			n.VY = 0
		}
	}
	for _, name := range s.names {
		s.forces[name].Initialize(nodes)
	}
}

// Nodes returns the current node collection.
func (s *Simulation) Nodes() []*graph.Node { return s.nodes }

// Force returns the named force, or nil.
func (s *Simulation) Force(name string) Force { return s.forces[name] }

// SetForce installs or, with a nil force, removes a named force.
func (s *Simulation) SetForce(name string, f Force) {
	if f == nil {
		delete(s.forces, name)
		s.names = slices.DeleteFunc(s.names, func(n string) bool { return n == name })
		return
	}
	if _, exists := s.forces[name]; !exists {
		s.names = append(s.names, name)
	}
	s.forces[name] = f
	f.Initialize(s.nodes)
}

// Tick advances the simulation by one step.
func (s *Simulation) Tick() {
	s.stopped = false
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, name := range s.names {
		s.forces[name].Apply(s.alpha)
	}

	keep := 1 - s.velocityDecay
	for _, n := range s.nodes {
		if n.Fx == nil {
			n.VX *= keep
			n.X += n.VX
		} else {
			n.X, n.VX = *n.Fx, 0
		}
		if n.Fy == nil {
			n.VY *= keep
			n.Y += n.VY
		} else {
			n.Y, n.VY = *n.Fy, 0
		}
	}
}

// Alpha returns the current energy.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets the current energy.
func (s *Simulation) SetAlpha(alpha float64) { s.alpha = alpha }

// SetAlphaDecay sets the per-tick decay rate of alpha toward its target.
func (s *Simulation) SetAlphaDecay(decay float64) { s.alphaDecay = decay }

// SetAlphaTarget sets the value alpha decays toward.
func (s *Simulation) SetAlphaTarget(target float64) { s.alphaTarget = target }

// SetVelocityDecay sets the fraction of velocity lost per tick.
func (s *Simulation) SetVelocityDecay(decay float64) { s.velocityDecay = decay }

// Stop marks the simulation as stopped. The simulation has no internal
// timer, so this only records state; the next Tick clears it.
func (s *Simulation) Stop() { s.stopped = true }

// Stopped reports whether Stop was called since the last Tick.
func (s *Simulation) Stopped() bool { return s.stopped }

var _ Engine = (*Simulation)(nil)
