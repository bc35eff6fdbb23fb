// Package engine defines the physics engine consumed by the force graph and
// ships a reference implementation.
//
// The force graph treats the engine as an opaque stepper: it sets the node
// collection, configures the link force, installs or removes named forces,
// reads and writes alpha (the remaining energy) and calls [Engine.Tick] once
// per animation frame. Any type implementing [Engine] can be plugged in.
//
// # Reference Simulation
//
// [Simulation] is a velocity-Verlet stepper in the style of d3-force:
//
//	alpha += (alphaTarget - alpha) * alphaDecay
//	for each force: force.Apply(alpha)     // adjusts VX, VY
//	v *= 1 - velocityDecay; x += v         // pinned axes are held
//
// [NewSimulation] installs a [Link] spring force, a [ManyBody] repulsion
// computed with a Barnes-Hut quadtree (gonum spatial/barneshut) and a
// [Center] force. [Radial] is used by DAG radial layouts.
package engine
