package layout

import (
	"github.com/matzehuels/forcegraph/pkg/dag"
	"github.com/matzehuels/forcegraph/pkg/engine"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

const (
	// LevelNodeRatio scales the automatic level distance.
	LevelNodeRatio = 2.0

	// radialSpread shrinks the automatic distance for radial modes, where
	// each level has a full circle of room.
	radialSpread = 0.7

	// RadialForceName is the engine force installed by radial modes.
	RadialForceName = "dagRadial"
)

// NodeFilter selects the nodes a DAG constraint applies to. Nil includes
// every node.
type NodeFilter func(*graph.Node) bool

func (f NodeFilter) includes(n *graph.Node) bool { return f == nil || f(n) }

// Constraints describes one application of DAG mode.
type Constraints struct {
	Mode Mode

	// LevelDistance is the spacing between depth levels. Zero or negative
	// selects [LevelDistance] for the node count.
	LevelDistance float64

	NodeFilter NodeFilter
}

// LevelDistance returns the automatic spacing between depth levels:
// nodeCount / max(maxDepth, 1) * LevelNodeRatio, scaled by 0.7 for radial
// modes.
func LevelDistance(nodeCount, maxDepth int, mode Mode) float64 {
	levels := max(maxDepth, 1)
	d := float64(nodeCount) / float64(levels) * LevelNodeRatio
	if mode.IsRadial() {
		d *= radialSpread
	}
	return d
}

// ComputeDepths resolves depths for the filtered nodes along links.
// Unresolved links are ignored. onLoop receives every cycle found.
func ComputeDepths(nodes []*graph.Node, links []*graph.Link, filter NodeFilter, onLoop func([]string)) dag.DepthMap {
	ids := make([]string, len(nodes))
	byID := make(map[string]*graph.Node, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
		byID[n.ID] = n
	}

	edges := make([]dag.Edge, 0, len(links))
	for _, l := range links {
		if !l.Resolved() {
			continue
		}
		edges = append(edges, dag.Edge{From: l.Source.ID, To: l.Target.ID})
	}

	return dag.Depths(ids, edges, dag.Options{
		NodeFilter: func(id string) bool {
			return filter.includes(byID[id])
		},
		OnLoopError: onLoop,
	})
}

// Apply constrains nodes according to c and returns the level distance
// used.
//
// Linear modes pin one axis of every included node and clear the other.
// Excluded nodes have both axes cleared, including pins left by an earlier
// Apply with a wider filter. Radial modes clear both axes of every node and
// install the [RadialForceName] force on eng; every other mode removes it.
func Apply(eng engine.Engine, nodes []*graph.Node, depths dag.DepthMap, c Constraints) float64 {
	maxDepth := depths.Max()
	dist := c.LevelDistance
	if dist <= 0 {
		dist = LevelDistance(len(nodes), maxDepth, c.Mode)
	}

	if c.Mode.Enabled() {
		fixX, signX := c.Mode.pinsX()
		fixY, signY := c.Mode.pinsY()
		for _, n := range nodes {
			if !c.NodeFilter.includes(n) {
				n.Unpin()
				continue
			}
			depth, _ := depths.Depth(n.ID)
			level := (float64(depth) - float64(maxDepth)/2) * dist
			var fx, fy *float64
			if fixX {
				v := level * signX
				fx = &v
			}
			if fixY {
				v := level * signY
				fy = &v
			}
			n.Pin(fx, fy)
		}
	}

	if eng == nil {
		return dist
	}
	if c.Mode.IsRadial() {
		eng.SetForce(RadialForceName, radialForce(depths, maxDepth, dist, c))
	} else {
		eng.SetForce(RadialForceName, nil)
	}
	return dist
}

func radialForce(depths dag.DepthMap, maxDepth int, dist float64, c Constraints) *engine.Radial {
	radius := func(n *graph.Node) float64 {
		depth, ok := depths.Depth(n.ID)
		if !ok {
			depth = -1
		}
		if c.Mode == ModeRadialIn {
			return float64(maxDepth-depth) * dist
		}
		return float64(depth) * dist
	}
	strength := func(n *graph.Node) float64 {
		if c.NodeFilter.includes(n) {
			return 1
		}
		return 0
	}
	return engine.NewRadial(radius, strength)
}

// Release clears pinned coordinates on every node.
func Release(nodes []*graph.Node) {
	for _, n := range nodes {
		n.Unpin()
	}
}
