package surface

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

var namedColors = map[string]string{
	"black":     "#000000",
	"white":     "#ffffff",
	"red":       "#ff0000",
	"green":     "#008000",
	"lime":      "#00ff00",
	"blue":      "#0000ff",
	"yellow":    "#ffff00",
	"orange":    "#ffa500",
	"purple":    "#800080",
	"magenta":   "#ff00ff",
	"cyan":      "#00ffff",
	"gray":      "#808080",
	"grey":      "#808080",
	"lightgray": "#d3d3d3",
	"lightgrey": "#d3d3d3",
	"darkgray":  "#a9a9a9",
	"darkgrey":  "#a9a9a9",
	"navy":      "#000080",
	"teal":      "#008080",
	"maroon":    "#800000",
	"olive":     "#808000",
	"silver":    "#c0c0c0",
	"steelblue": "#4682b4",
	"salmon":    "#fa8072",
	"gold":      "#ffd700",
	"pink":      "#ffc0cb",
	"brown":     "#a52a2a",
	"indigo":    "#4b0082",
	"crimson":   "#dc143c",
}

// ParseColor converts a CSS color string to a color.Color. Supported forms
// are #rgb, #rrggbb, #rrggbbaa, rgb(r,g,b), rgba(r,g,b,a), "transparent"
// and a set of named colors.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "transparent" {
		return color.NRGBA{}, nil
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}

	if strings.HasPrefix(s, "#") {
		if len(s) == 4 {
			s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
		}
		if (len(s) != 7 && len(s) != 9) || strings.Trim(s[1:], "0123456789abcdef") != "" {
			return nil, errors.New(errors.ErrCodeInvalidColor, "malformed hex color %q", s)
		}
		c, err := colorful.Hex(s[:7])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "parse color %q", s)
		}
		if len(s) == 9 {
			a, _ := strconv.ParseUint(s[7:], 16, 8)
			r, g, b := c.RGB255()
			return color.NRGBA{R: r, G: g, B: b, A: uint8(a)}, nil
		}
		return c, nil
	}

	if args, ok := cssFunc(s, "rgba"); ok && len(args) == 4 {
		return rgba(s, args)
	}
	if args, ok := cssFunc(s, "rgb"); ok && len(args) == 3 {
		return rgba(s, append(args, "1"))
	}
	return nil, errors.New(errors.ErrCodeInvalidColor, "unsupported color %q", s)
}

func cssFunc(s, name string) ([]string, bool) {
	rest, ok := strings.CutPrefix(s, name+"(")
	if !ok {
		return nil, false
	}
	rest, ok = strings.CutSuffix(rest, ")")
	if !ok {
		return nil, false
	}
	args := strings.Split(rest, ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return args, true
}

func rgba(s string, args []string) (color.Color, error) {
	var ch [3]uint8
	for i := range 3 {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "parse color %q", s)
		}
		ch[i] = uint8(clamp(v, 0, 255))
	}
	a, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "parse color %q", s)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: uint8(clamp(a, 0, 1)*255 + 0.5)}, nil
}

func clamp(v, lo, hi float64) float64 { return max(lo, min(hi, v)) }
