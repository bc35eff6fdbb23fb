package graph

import (
	"github.com/google/uuid"
)

// =============================================================================
// Node
// =============================================================================

// Node is a vertex of the rendered graph.
//
// The position (X, Y) and velocity (VX, VY) belong to the physics engine.
// Fx and Fy pin an axis when non-nil. Val and Color are read-only style
// hints; arbitrary extra attributes live in Attrs.
type Node struct {
	ID     string
	X, Y   float64
	VX, VY float64
	Fx, Fy *float64
	Val    float64
	Color  string
	Attrs  map[string]any

	positioned bool
}

// Positioned reports whether the node has been assigned coordinates, either
// from input data or by the physics engine.
func (n *Node) Positioned() bool { return n.positioned }

// SetPosition moves the node and marks it as positioned.
func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
	n.positioned = true
}

// Pin fixes the node's axes. A nil argument leaves that axis free.
func (n *Node) Pin(fx, fy *float64) {
	n.Fx, n.Fy = fx, fy
}

// Unpin clears both pinned axes.
func (n *Node) Unpin() { n.Fx, n.Fy = nil, nil }

// Attr returns the named attribute, or nil.
func (n *Node) Attr(name string) any {
	if n.Attrs == nil {
		return nil
	}
	return n.Attrs[name]
}

// =============================================================================
// Link
// =============================================================================

// Link is a directed connection between two nodes.
//
// SourceID and TargetID are the raw foreign keys. Source and Target are the
// resolved node pointers, populated by [Data.Resolve]; they are nil until
// then, or when a key does not match any node.
type Link struct {
	ID        string
	SourceID  string
	TargetID  string
	Source    *Node
	Target    *Node
	Color     string
	Width     float64
	Dash      []float64
	Curvature float64
	Attrs     map[string]any
}

// Attr returns the named attribute, or nil.
func (l *Link) Attr(name string) any {
	if l.Attrs == nil {
		return nil
	}
	return l.Attrs[name]
}

// Resolved reports whether both endpoints point to live nodes.
func (l *Link) Resolved() bool { return l.Source != nil && l.Target != nil }

// Positioned reports whether both endpoints are resolved and have coordinates.
func (l *Link) Positioned() bool {
	return l.Resolved() && l.Source.positioned && l.Target.positioned
}

// IsLoop reports whether the link starts and ends at the same node.
func (l *Link) IsLoop() bool { return l.Resolved() && l.Source == l.Target }

// =============================================================================
// Data
// =============================================================================

// Data is an ordered collection of nodes and links.
type Data struct {
	Nodes []*Node
	Links []*Link
}

// Node returns the node with the given ID.
func (d *Data) Node(id string) (*Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// NodeIDs returns node IDs in collection order.
func (d *Data) NodeIDs() []string {
	ids := make([]string, len(d.Nodes))
	for i, n := range d.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Resolve replaces every link's Source and Target with pointers to the
// nodes named by SourceID and TargetID, and assigns a random ID to links
// that lack one.
//
// The returned slice holds the links whose endpoints both resolved, in
// collection order. Links with a dangling key get nil endpoints and are
// counted in dropped; they never appear in the returned slice.
func (d *Data) Resolve() (links []*Link, dropped int) {
	index := make(map[string]*Node, len(d.Nodes))
	for _, n := range d.Nodes {
		index[n.ID] = n
	}

	links = make([]*Link, 0, len(d.Links))
	for _, l := range d.Links {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		l.Source = index[l.SourceID]
		l.Target = index[l.TargetID]
		if !l.Resolved() {
			l.Source, l.Target = nil, nil
			dropped++
			continue
		}
		links = append(links, l)
	}
	return links, dropped
}
