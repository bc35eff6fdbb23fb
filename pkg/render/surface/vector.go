package surface

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
)

type vectorState struct {
	stroke, fill string
	width        float64
	dash         []float64
}

// Vector emits SVG. Every Stroke or Fill becomes one <path> element inside
// a group carrying the centering and zoom transform.
type Vector struct {
	canvas *svg.SVG
	path   strings.Builder

	hasCurrent bool
	cx, cy     float64

	state vectorState
	stack []vectorState
	err   error
}

// NewVector starts an SVG document of the given size on w. An empty
// background leaves the canvas transparent. Call End to close the
// document.
//
// Colors are written in a normalized form (#rrggbb or rgba()). Colors that
// do not parse are drawn black and reported by Err.
func NewVector(w io.Writer, width, height int, zoom float64, background string) *Vector {
	if zoom <= 0 {
		zoom = 1
	}
	v := &Vector{
		canvas: svg.New(w),
		state:  vectorState{stroke: "#000000", fill: "#000000", width: 1},
	}
	v.canvas.Start(width, height)
	if background != "" {
		v.canvas.Rect(0, 0, width, height, "fill:"+v.css(background))
	}
	v.canvas.Gtransform(fmt.Sprintf("translate(%s,%s) scale(%s)",
		num(float64(width)/2), num(float64(height)/2), num(zoom)))
	return v
}

// Err returns the first color parse error.
func (v *Vector) Err() error { return v.err }

// End closes the transform group and the document.
func (v *Vector) End() {
	v.canvas.Gend()
	v.canvas.End()
}

func (v *Vector) Save() { v.stack = append(v.stack, v.state) }

func (v *Vector) Restore() {
	if len(v.stack) == 0 {
		return
	}
	v.state = v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
}

func (v *Vector) BeginPath() {
	v.path.Reset()
	v.hasCurrent = false
}

func (v *Vector) MoveTo(x, y float64) {
	v.cmd("M", x, y)
	v.cx, v.cy, v.hasCurrent = x, y, true
}

func (v *Vector) LineTo(x, y float64) {
	if !v.hasCurrent {
		v.MoveTo(x, y)
		return
	}
	v.cmd("L", x, y)
	v.cx, v.cy = x, y
}

func (v *Vector) QuadraticCurveTo(cpx, cpy, x, y float64) {
	if !v.hasCurrent {
		v.MoveTo(cpx, cpy)
	}
	v.cmd("Q", cpx, cpy, x, y)
	v.cx, v.cy = x, y
}

func (v *Vector) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	if !v.hasCurrent {
		v.MoveTo(cp1x, cp1y)
	}
	v.cmd("C", cp1x, cp1y, cp2x, cp2y, x, y)
	v.cx, v.cy = x, y
}

// Arc adds a circular arc, connected to the current point by a line as on
// an HTML canvas. Sweeps of a full turn or more are split in two halves
// since a single SVG arc cannot close on itself.
func (v *Vector) Arc(x, y, r, startAngle, endAngle float64) {
	sx, sy := x+r*math.Cos(startAngle), y+r*math.Sin(startAngle)
	v.LineTo(sx, sy)

	delta := endAngle - startAngle
	if math.Abs(delta) >= 2*math.Pi {
		mid := startAngle + math.Copysign(math.Pi, delta)
		v.arcTo(x, y, r, mid, math.Copysign(math.Pi, delta))
		v.arcTo(x, y, r, startAngle, math.Copysign(math.Pi, delta))
		return
	}
	v.arcTo(x, y, r, endAngle, delta)
}

func (v *Vector) arcTo(x, y, r, angle, delta float64) {
	ex, ey := x+r*math.Cos(angle), y+r*math.Sin(angle)
	large, sweep := 0, 0
	if math.Abs(delta) > math.Pi {
		large = 1
	}
	if delta > 0 {
		sweep = 1
	}
	fmt.Fprintf(&v.path, "A%s %s 0 %d %d %s %s ", num(r), num(r), large, sweep, num(ex), num(ey))
	v.cx, v.cy = ex, ey
}

func (v *Vector) SetStrokeStyle(c string) { v.state.stroke = v.css(c) }
func (v *Vector) SetFillStyle(c string)   { v.state.fill = v.css(c) }
func (v *Vector) SetLineWidth(w float64)  { v.state.width = w }

func (v *Vector) SetLineDash(segments []float64) {
	v.state.dash = append([]float64(nil), segments...)
}

func (v *Vector) Stroke() {
	d := v.d()
	if d == "" {
		return
	}
	style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", v.state.stroke, num(v.state.width))
	if len(v.state.dash) > 0 {
		parts := make([]string, len(v.state.dash))
		for i, s := range v.state.dash {
			parts[i] = num(s)
		}
		style += ";stroke-dasharray:" + strings.Join(parts, ",")
	}
	v.canvas.Path(d, style)
}

func (v *Vector) Fill() {
	d := v.d()
	if d == "" {
		return
	}
	v.canvas.Path(d, fmt.Sprintf("fill:%s;stroke:none", v.state.fill))
}

// css parses c and formats it back, so only color syntax reaches the
// style attribute.
func (v *Vector) css(c string) string {
	parsed, err := ParseColor(c)
	if err != nil {
		if v.err == nil {
			v.err = err
		}
		return "#000000"
	}
	n := color.NRGBAModel.Convert(parsed).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", n.R, n.G, n.B, num(float64(n.A)/0xff))
}

func (v *Vector) d() string { return strings.TrimSpace(v.path.String()) }

func (v *Vector) cmd(op string, coords ...float64) {
	v.path.WriteString(op)
	for i, c := range coords {
		if i > 0 {
			v.path.WriteByte(' ')
		}
		v.path.WriteString(num(c))
	}
	v.path.WriteByte(' ')
}

func num(f float64) string {
	s := strings.TrimRight(fmt.Sprintf("%.2f", f), "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
