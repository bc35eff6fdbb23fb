// Package forcegraph renders force-directed node-link graphs frame by frame.
//
// A [ForceGraph] owns a physics engine, the simulation lifecycle controller
// and the render pipeline, and wires them together the way an interactive
// canvas component would:
//
//	fg := forcegraph.New(surface,
//	    forcegraph.WithGraphData(data),
//	    forcegraph.WithDAGMode(layout.ModeTopDown),
//	)
//	for fg.State() == sim.Running {
//	    fg.TickFrame()
//	}
//
// Configuration changes that affect the simulation mark the graph dirty; the
// next [ForceGraph.TickFrame] (or an explicit [ForceGraph.Update]) reseeds
// the engine, recomputes DAG depths and reapplies layout constraints.
// Frames are painted on every call, whether or not the simulation is still
// running.
package forcegraph
