package layout

import (
	"strings"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

// Mode selects how depths constrain the layout.
type Mode string

const (
	ModeNone      Mode = ""
	ModeTopDown   Mode = "td"
	ModeBottomUp  Mode = "bu"
	ModeLeftRight Mode = "lr"
	ModeRightLeft Mode = "rl"
	ModeRadialIn  Mode = "radialin"
	ModeRadialOut Mode = "radialout"
)

var modeAliases = map[string]Mode{
	"":           ModeNone,
	"none":       ModeNone,
	"off":        ModeNone,
	"td":         ModeTopDown,
	"top-down":   ModeTopDown,
	"topdown":    ModeTopDown,
	"bu":         ModeBottomUp,
	"bottom-up":  ModeBottomUp,
	"bottomup":   ModeBottomUp,
	"lr":         ModeLeftRight,
	"left-right": ModeLeftRight,
	"leftright":  ModeLeftRight,
	"rl":         ModeRightLeft,
	"right-left": ModeRightLeft,
	"rightleft":  ModeRightLeft,
	"radialin":   ModeRadialIn,
	"radial-in":  ModeRadialIn,
	"radialout":  ModeRadialOut,
	"radial-out": ModeRadialOut,
}

// Modes lists the canonical names accepted by [ParseMode], for help text.
var Modes = []string{"none", "td", "bu", "lr", "rl", "radialin", "radialout"}

// ParseMode resolves a mode name or one of its long forms ("top-down",
// "radial-in", ...). Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return ModeNone, errors.New(errors.ErrCodeInvalidDAGMode,
			"unknown dag mode %q (valid: %s)", s, strings.Join(Modes, ", "))
	}
	return m, nil
}

// UnmarshalText implements encoding.TextUnmarshaler so modes decode directly
// from config files.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// String returns the canonical name; the empty mode prints as "none".
func (m Mode) String() string {
	if m == ModeNone {
		return "none"
	}
	return string(m)
}

// Enabled reports whether any DAG constraint is active.
func (m Mode) Enabled() bool { return m != ModeNone }

// IsRadial reports whether m is radialin or radialout.
func (m Mode) IsRadial() bool { return m == ModeRadialIn || m == ModeRadialOut }

// pinsX reports whether the mode fixes the horizontal axis, and with which
// sign.
func (m Mode) pinsX() (bool, float64) {
	switch m {
	case ModeLeftRight:
		return true, 1
	case ModeRightLeft:
		return true, -1
	}
	return false, 0
}

func (m Mode) pinsY() (bool, float64) {
	switch m {
	case ModeTopDown:
		return true, 1
	case ModeBottomUp:
		return true, -1
	}
	return false, 0
}
