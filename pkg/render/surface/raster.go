package surface

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

type rasterState struct {
	stroke, fill color.Color
	width        float64
	dash         []float64
}

// Raster draws into an RGBA image. The graph origin is at the image center
// and graph units are multiplied by the zoom factor.
type Raster struct {
	dc    *gg.Context
	zoom  float64
	state rasterState
	stack []rasterState
	err   error
}

// NewRaster returns a width x height raster cleared to background. An empty
// background leaves the image transparent.
func NewRaster(width, height int, zoom float64, background string) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid canvas size %dx%d", width, height)
	}
	if zoom <= 0 {
		zoom = 1
	}
	dc := gg.NewContext(width, height)
	if background != "" {
		bg, err := ParseColor(background)
		if err != nil {
			return nil, err
		}
		dc.SetColor(bg)
		dc.Clear()
	}
	dc.Translate(float64(width)/2, float64(height)/2)
	dc.Scale(zoom, zoom)

	return &Raster{
		dc:   dc,
		zoom: zoom,
		state: rasterState{
			stroke: color.Black,
			fill:   color.Black,
			width:  1,
		},
	}, nil
}

// Err returns the first color parse error, if any. Unparseable colors
// draw as black.
func (r *Raster) Err() error { return r.err }

// Image returns the rendered image.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return nil
}

func (r *Raster) Save() {
	r.dc.Push()
	r.stack = append(r.stack, r.state)
}

func (r *Raster) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.dc.Pop()
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Raster) BeginPath()          { r.dc.ClearPath() }
func (r *Raster) MoveTo(x, y float64) { r.dc.MoveTo(x, y) }
func (r *Raster) LineTo(x, y float64) { r.dc.LineTo(x, y) }

func (r *Raster) QuadraticCurveTo(cpx, cpy, x, y float64) {
	r.dc.QuadraticTo(cpx, cpy, x, y)
}

func (r *Raster) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	r.dc.CubicTo(cp1x, cp1y, cp2x, cp2y, x, y)
}

func (r *Raster) Arc(x, y, radius, startAngle, endAngle float64) {
	r.dc.DrawArc(x, y, radius, startAngle, endAngle)
}

func (r *Raster) SetStrokeStyle(c string) { r.state.stroke = r.parse(c) }
func (r *Raster) SetFillStyle(c string)   { r.state.fill = r.parse(c) }
func (r *Raster) SetLineWidth(w float64)  { r.state.width = w }

func (r *Raster) SetLineDash(segments []float64) {
	r.state.dash = append([]float64(nil), segments...)
}

// Stroke outlines the current path. gg applies line width and dashes in
// device space, so both are scaled by the zoom factor here.
func (r *Raster) Stroke() {
	r.dc.SetColor(r.state.stroke)
	r.dc.SetLineWidth(r.state.width * r.zoom)
	dash := make([]float64, len(r.state.dash))
	for i, d := range r.state.dash {
		dash[i] = d * r.zoom
	}
	r.dc.SetDash(dash...)
	r.dc.StrokePreserve()
}

func (r *Raster) Fill() {
	r.dc.SetColor(r.state.fill)
	r.dc.FillPreserve()
}

func (r *Raster) parse(s string) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return color.Black
	}
	return c
}
