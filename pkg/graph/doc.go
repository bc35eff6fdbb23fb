// Package graph provides the node-link data model shared by the layout,
// simulation and render packages.
//
// # Core Types
//
//   - [Node]: a vertex with an engine-owned position and optional pins
//   - [Link]: a directed connection between two nodes with style attributes
//   - [Data]: an ordered collection of nodes and links
//
// # Ownership
//
// Data is owned by the caller and replaced wholesale on reconfiguration.
// Once adopted by a force graph, fields are written by exactly one stage:
//
//	X, Y, VX, VY    physics engine (during a tick)
//	Fx, Fy          layout constraints or the caller
//	Source, Target  link resolution (once per update)
//
// Per-frame scratch state such as curve control points and particles is kept
// in side tables by the render package rather than on the entities.
//
// # Serialization
//
// Graphs use a simple node-link JSON format. Unknown fields are kept in the
// Attrs map so that attribute accessors can read them:
//
//	{
//	  "nodes": [{"id": "a", "val": 2, "group": "core"}, {"id": "b"}],
//	  "links": [{"source": "a", "target": "b", "curvature": 0.2}]
//	}
//
// Ids and endpoints may be strings or numbers; numbers keep their literal
// form. [WithFields] reads them from other keys, e.g. "name", "from" and
// "to". Encoding always writes "id", "source" and "target".
//
// Common operations:
//
//	d, _ := graph.ReadFile("graph.json")   // File -> Data
//	data, _ := graph.Marshal(d)            // Data -> []byte
//
// # Accessors
//
// Styling is driven by accessors: functions from an entity to a value. Use
// [ConstNode]/[ConstLink] for fixed values and [NodeAttr]/[LinkAttr] to read
// from the Attrs map.
//
// # Concurrency
//
// Data is not safe for concurrent use. All writers run sequentially inside a
// single frame call.
package graph
