package dag

// DepthMap maps a node ID to its topological depth.
type DepthMap map[string]int

// Max returns the largest depth in the map, or 0 for an empty map.
func (m DepthMap) Max() int {
	maxDepth := 0
	for _, d := range m {
		if d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}

// Depth returns the node's depth and whether it is present.
func (m DepthMap) Depth(id string) (int, bool) {
	d, ok := m[id]
	return d, ok
}

// Options configures [Depths].
type Options struct {
	// NodeFilter selects the nodes taking part in depth propagation.
	// Excluded nodes never appear in the result and edges touching them are
	// ignored. Nil includes every node.
	NodeFilter func(id string) bool

	// OnLoopError receives each cycle found among included nodes.
	OnLoopError func(loop []string)
}

// Depths computes the depth of every included node: roots get 0 and every
// other node gets one more than its deepest included parent.
//
// Edges that reference unknown node IDs are skipped. Cycles are reported
// through Options.OnLoopError and their closing edges ignored, so the call
// always terminates with a depth for every included node.
func Depths(nodeIDs []string, edges []Edge, opts Options) DepthMap {
	g := New()
	for _, id := range nodeIDs {
		if opts.NodeFilter != nil && !opts.NodeFilter(id) {
			continue
		}
		_ = g.AddNode(id) // duplicates and empty IDs collapse silently
	}
	for _, e := range edges {
		_ = g.AddEdge(e) // edges to excluded or unknown nodes are ignored
	}

	BreakCycles(g, opts.OnLoopError)
	return AssignDepths(g)
}

// AssignDepths computes longest-path depths for an acyclic graph.
//
// Source nodes (in-degree 0) start at depth 0 and each child is pushed to
// one plus the maximum depth of its parents, using Kahn's topological
// traversal. Nodes on an unbroken cycle never reach in-degree 0 and keep
// depth 0; run [BreakCycles] first.
//
// Time complexity is O(V + E).
func AssignDepths(g *DAG) DepthMap {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	depths := make(DepthMap, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, id := range nodes {
		depths[id] = 0
		degree := g.InDegree(id)
		inDegree[id] = degree
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if depth := depths[curr] + 1; depth > depths[child] {
				depths[child] = depth
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	return depths
}
