// Package surface provides drawing backends for the render pipeline.
//
//   - [Raster] draws into an image with fogleman/gg and encodes PNG.
//   - [Vector] emits SVG through ajstarks/svgo.
//   - [Recorder] keeps the calls in memory, for tests and diagnostics.
//
// All backends accept CSS color strings (hex, rgb(), rgba() and common
// named colors) and place the graph origin at the center of the canvas.
package surface
