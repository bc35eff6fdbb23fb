package render

// Surface is a stateful 2D drawing context modelled on the HTML canvas API.
// Coordinates are in graph space; the surface owns the view transform.
type Surface interface {
	Save()
	Restore()

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticCurveTo(cpx, cpy, x, y float64)
	BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64)
	Arc(x, y, r, startAngle, endAngle float64)

	SetStrokeStyle(color string)
	SetFillStyle(color string)
	SetLineWidth(width float64)
	SetLineDash(segments []float64)

	Stroke()
	Fill()
}
