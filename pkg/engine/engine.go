package engine

import "github.com/matzehuels/forcegraph/pkg/graph"

// Force adjusts node velocities once per tick.
type Force interface {
	// Initialize is called whenever the engine's node collection changes,
	// and when the force is installed.
	Initialize(nodes []*graph.Node)
	// Apply adds the force's contribution for the current alpha.
	Apply(alpha float64)
}

// LinkForce is a force driven by the link collection.
type LinkForce interface {
	Force
	SetLinks(links []*graph.Link)
}

// Engine is the stepping physics engine driven by the lifecycle controller.
type Engine interface {
	SetNodes(nodes []*graph.Node)
	Nodes() []*graph.Node

	// Force returns the named force, or nil.
	Force(name string) Force
	// SetForce installs f under name; a nil f removes the force.
	SetForce(name string, f Force)

	Tick()
	Alpha() float64
	SetAlpha(alpha float64)
	SetAlphaDecay(decay float64)
	SetAlphaTarget(target float64)
	SetVelocityDecay(decay float64)
	Stop()
}

// Default force names installed by [NewSimulation].
const (
	ForceLink   = "link"
	ForceCharge = "charge"
	ForceCenter = "center"
)
