package dag

import "slices"

// BreakCycles removes back-edges so that the graph becomes acyclic and
// returns the number of edges removed.
//
// A white/gray/black depth-first search starts from the source nodes and
// then from any node still unvisited (cycles with no entry point). Every
// edge pointing at a gray node closes a loop; onLoop, when non-nil, receives
// that loop as the node path from the revisited node back to itself, for
// example [a b c a]. A self-loop is reported as [a a].
//
// Nodes are visited in insertion order, so the removed edges are
// deterministic for a given input.
func BreakCycles(g *DAG, onLoop func(loop []string)) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var path []string
	var backEdges []Edge

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		path = append(path, node)
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, Edge{From: node, To: child})
				if onLoop != nil {
					start := slices.Index(path, child)
					loop := append(slices.Clone(path[start:]), child)
					onLoop(loop)
				}
			}
		}
		path = path[:len(path)-1]
		color[node] = black
	}

	for _, id := range g.Sources() {
		if color[id] == white {
			dfs(id)
		}
	}
	for _, id := range g.Nodes() {
		if color[id] == white {
			dfs(id)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e.From, e.To)
	}
	return len(backEdges)
}
