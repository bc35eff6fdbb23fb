package surface

import "slices"

// Call is one recorded drawing operation. Style holds the active stroke
// or fill color for Stroke and Fill calls; Width and Dash are set for
// Stroke.
type Call struct {
	Op    string
	Args  []float64
	Style string
	Width float64
	Dash  []float64
}

type recorderState struct {
	stroke, fill string
	width        float64
	dash         []float64
}

// Recorder records drawing calls without rendering anything.
type Recorder struct {
	Calls []Call

	state recorderState
	stack []recorderState
}

// NewRecorder returns an empty recorder with canvas defaults.
func NewRecorder() *Recorder {
	return &Recorder{state: recorderState{stroke: "black", fill: "black", width: 1}}
}

// Depth returns the current Save nesting depth.
func (r *Recorder) Depth() int { return len(r.stack) }

// Ops returns the recorded operation names in order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Filter returns the calls with the given operation name.
func (r *Recorder) Filter(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset drops recorded calls and restores canvas defaults.
func (r *Recorder) Reset() { *r = *NewRecorder() }

func (r *Recorder) rec(op string, args ...float64) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.state)
	r.rec("save")
}

func (r *Recorder) Restore() {
	if n := len(r.stack); n > 0 {
		r.state = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
	r.rec("restore")
}

func (r *Recorder) BeginPath()          { r.rec("beginPath") }
func (r *Recorder) MoveTo(x, y float64) { r.rec("moveTo", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.rec("lineTo", x, y) }

func (r *Recorder) QuadraticCurveTo(cpx, cpy, x, y float64) {
	r.rec("quadraticCurveTo", cpx, cpy, x, y)
}

func (r *Recorder) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	r.rec("bezierCurveTo", cp1x, cp1y, cp2x, cp2y, x, y)
}

func (r *Recorder) Arc(x, y, radius, startAngle, endAngle float64) {
	r.rec("arc", x, y, radius, startAngle, endAngle)
}

func (r *Recorder) SetStrokeStyle(c string) { r.state.stroke = c }
func (r *Recorder) SetFillStyle(c string)   { r.state.fill = c }
func (r *Recorder) SetLineWidth(w float64)  { r.state.width = w }

func (r *Recorder) SetLineDash(segments []float64) {
	r.state.dash = slices.Clone(segments)
}

func (r *Recorder) Stroke() {
	r.Calls = append(r.Calls, Call{
		Op:    "stroke",
		Style: r.state.stroke,
		Width: r.state.width,
		Dash:  slices.Clone(r.state.dash),
	})
}

func (r *Recorder) Fill() {
	r.Calls = append(r.Calls, Call{Op: "fill", Style: r.state.fill})
}
