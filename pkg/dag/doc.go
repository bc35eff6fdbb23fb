// Package dag computes topological depths for DAG-constrained layouts.
//
// # Overview
//
// A force graph in DAG mode levels its nodes by depth: roots sit at depth 0
// and every other node sits one level below its deepest parent. This package
// provides the small directed graph used for that computation and the two
// passes that produce a [DepthMap]:
//
//  1. [BreakCycles] removes back-edges found by a white/gray/black DFS and
//     reports each closed loop through a callback
//  2. [AssignDepths] runs a longest-path layering (Kahn's algorithm) over
//     the now acyclic graph
//
// [Depths] wires both passes together behind a node filter, which is the
// entry point used by the force graph.
//
// # Basic Usage
//
//	depths := dag.Depths(ids, edges, dag.Options{
//	    OnLoopError: func(loop []string) { log.Warn("cycle", "nodes", loop) },
//	})
//	fmt.Println(depths["app"], depths.Max())
//
// # Cycles
//
// Real-world input is not always acyclic. Instead of failing, resolution
// drops the offending edges and keeps going, so the result is always a
// complete (possibly less constrained) depth assignment over the included
// nodes.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
package dag
