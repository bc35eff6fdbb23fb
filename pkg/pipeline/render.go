package pipeline

import (
	"bytes"
	"cmp"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/forcegraph"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render/surface"
)

// Render paints the scene's current state in one output format. The
// simulation is not advanced.
func Render(scene *forcegraph.ForceGraph, canvas config.Canvas, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = renderSVG(scene, canvas)
	case FormatPNG:
		data, err = renderPNG(scene, canvas)
	case FormatJSON:
		data, err = graph.Marshal(scene.GraphData())
	default:
		return nil, ValidateFormat(format)
	}
	if err != nil {
		return nil, errors.Wrap(cmp.Or(errors.GetCode(err), errors.ErrCodeInternal), err, "render %s", format)
	}
	return data, nil
}

func renderSVG(scene *forcegraph.ForceGraph, canvas config.Canvas) ([]byte, error) {
	var buf bytes.Buffer
	v := surface.NewVector(&buf, canvas.Width, canvas.Height, canvas.Scale, canvas.Background)
	scene.Paint(v)
	v.End()
	if err := v.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPNG(scene *forcegraph.ForceGraph, canvas config.Canvas) ([]byte, error) {
	r, err := surface.NewRaster(canvas.Width, canvas.Height, canvas.Scale, canvas.Background)
	if err != nil {
		return nil, err
	}
	scene.Paint(r)
	if err := r.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
