// Package render paints simulation state onto a 2D [Surface] once per
// frame.
//
// A frame is painted in three passes:
//
//  1. Nodes: each visible node is handed to the node painter inside a
//     Save/Restore pair.
//  2. Links: control points are computed for every visible link, custom
//     link painters run in their before/after slots, and the remaining
//     links are stroked in batches that share color, width and dash so the
//     surface changes state once per batch rather than once per link.
//  3. Particles: directional markers advance along their link and are
//     drawn as small filled circles.
//
// Per-link scratch state (control points, particles) is kept in side tables
// keyed by link pointer, so links sharing an ID keep separate state;
// [graph.Link] itself carries no frame state.
//
// Links whose endpoints are unresolved or not yet positioned are skipped for
// the frame. No operation in this package returns an error.
package render
