// Package layout converts DAG depths into layout constraints on a physics
// engine.
//
// Linear modes (td, bu, lr, rl) pin one axis of every included node to its
// depth level, centered on the origin:
//
//	coord = (depth - maxDepth/2) * levelDistance
//
// with the sign inverted for bu and rl. Radial modes (radialin, radialout)
// pin nothing; they install a radial force named [RadialForceName] whose
// target radius grows with depth (radialout) or shrinks with it (radialin).
//
// [Apply] is idempotent for a fixed input and is rerun on every update.
// Turning DAG mode off is a separate transition handled by [Release].
package layout
