package graph

import (
	"bytes"
	"cmp"
	"encoding/json"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

// =============================================================================
// Wire Format
// =============================================================================

type wireGraph struct {
	Nodes []wireNode `json:"nodes"`
	Links []wireLink `json:"links"`
}

type wireNode struct {
	ID    string   `json:"-"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Fx    *float64 `json:"fx,omitempty"`
	Fy    *float64 `json:"fy,omitempty"`
	Val   float64  `json:"val,omitempty"`
	Color string   `json:"color,omitempty"`
}

type wireLink struct {
	ID        string    `json:"-"`
	Source    string    `json:"-"`
	Target    string    `json:"-"`
	Color     string    `json:"color,omitempty"`
	Width     float64   `json:"width,omitempty"`
	Dash      []float64 `json:"dash,omitempty"`
	Curvature float64   `json:"curvature,omitempty"`
}

var (
	nodeFields = []string{"x", "y", "fx", "fy", "val", "color"}
	linkFields = []string{"id", "color", "width", "dash", "curvature"}
)

// Fields names the JSON keys that carry node ids and link endpoints. Empty
// keys fall back to "id", "source" and "target". Encode always writes the
// defaults.
type Fields struct {
	NodeID     string
	LinkSource string
	LinkTarget string
}

func (f Fields) withDefaults() Fields {
	return Fields{
		NodeID:     cmp.Or(f.NodeID, "id"),
		LinkSource: cmp.Or(f.LinkSource, "source"),
		LinkTarget: cmp.Or(f.LinkTarget, "target"),
	}
}

// DecodeOption customizes decoding.
type DecodeOption func(*Fields)

// WithFields reads node ids and link endpoints from the given keys.
func WithFields(f Fields) DecodeOption {
	return func(dst *Fields) { *dst = f.withDefaults() }
}

// =============================================================================
// Decoding
// =============================================================================

// ReadFile reads a JSON graph file.
func ReadFile(path string, opts ...DecodeOption) (*Data, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f, opts...)
}

// Unmarshal decodes JSON graph bytes.
func Unmarshal(data []byte, opts ...DecodeOption) (*Data, error) {
	return Decode(bytes.NewReader(data), opts...)
}

// Decode reads a JSON graph from r. Node IDs must be non-empty and unique;
// links may reference unknown nodes and are dropped later by [Data.Resolve].
// IDs and endpoints may be JSON strings or numbers.
func Decode(r io.Reader, opts ...DecodeOption) (*Data, error) {
	fields := Fields{}.withDefaults()
	for _, opt := range opts {
		opt(&fields)
	}

	var raw struct {
		Nodes []json.RawMessage `json:"nodes"`
		Links []json.RawMessage `json:"links"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
	}

	d := &Data{
		Nodes: make([]*Node, 0, len(raw.Nodes)),
		Links: make([]*Link, 0, len(raw.Links)),
	}
	seen := make(map[string]bool, len(raw.Nodes))

	nodeKnown := append(slices.Clone(nodeFields), fields.NodeID)
	linkKnown := append(slices.Clone(linkFields), fields.LinkSource, fields.LinkTarget)

	for i, msg := range raw.Nodes {
		var w wireNode
		if err := json.Unmarshal(msg, &w); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d", i)
		}
		ids, err := keyStrings(msg, fields.NodeID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d", i)
		}
		w.ID = ids[0]
		if err := errors.ValidateNodeID(w.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d", i)
		}
		if seen[w.ID] {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", w.ID)
		}
		seen[w.ID] = true

		n := &Node{ID: w.ID, Fx: w.Fx, Fy: w.Fy, Val: w.Val, Color: w.Color}
		if w.X != nil && w.Y != nil {
			n.SetPosition(*w.X, *w.Y)
		}
		n.Attrs = extraAttrs(msg, nodeKnown)
		d.Nodes = append(d.Nodes, n)
	}

	for i, msg := range raw.Links {
		var w wireLink
		if err := json.Unmarshal(msg, &w); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "link %d", i)
		}
		keys, err := keyStrings(msg, fields.LinkSource, fields.LinkTarget, "id")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "link %d", i)
		}
		w.Source, w.Target, w.ID = keys[0], keys[1], keys[2]
		d.Links = append(d.Links, &Link{
			ID:        w.ID,
			SourceID:  w.Source,
			TargetID:  w.Target,
			Color:     w.Color,
			Width:     w.Width,
			Dash:      w.Dash,
			Curvature: w.Curvature,
			Attrs:     extraAttrs(msg, linkKnown),
		})
	}
	return d, nil
}

// keyStrings reads the named keys of a JSON object as strings. Numbers keep
// their literal form; missing keys and null read as "".
func keyStrings(msg json.RawMessage, keys ...string) ([]string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(msg, &obj); err != nil {
		return nil, err
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		v, ok := obj[k]
		if !ok || string(v) == "null" {
			continue
		}
		if err := json.Unmarshal(v, &out[i]); err == nil {
			continue
		}
		var num json.Number
		if err := json.Unmarshal(v, &num); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "%s must be a string or number, got %s", k, v)
		}
		out[i] = num.String()
	}
	return out, nil
}

func extraAttrs(msg json.RawMessage, known []string) map[string]any {
	var all map[string]any
	if err := json.Unmarshal(msg, &all); err != nil {
		return nil
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil
	}
	return all
}

// =============================================================================
// Encoding
// =============================================================================

// Marshal encodes the graph, including current positions, as indented JSON.
func Marshal(d *Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the graph as JSON to w. Attributes are merged back into the
// node and link objects; built-in fields win on conflict.
func Encode(d *Data, w io.Writer) error {
	out := struct {
		Nodes []map[string]any `json:"nodes"`
		Links []map[string]any `json:"links"`
	}{
		Nodes: make([]map[string]any, 0, len(d.Nodes)),
		Links: make([]map[string]any, 0, len(d.Links)),
	}

	for _, n := range d.Nodes {
		m := mergeAttrs(n.Attrs)
		m["id"] = n.ID
		if n.positioned {
			m["x"], m["y"] = n.X, n.Y
		}
		if n.Fx != nil {
			m["fx"] = *n.Fx
		}
		if n.Fy != nil {
			m["fy"] = *n.Fy
		}
		if n.Val != 0 {
			m["val"] = n.Val
		}
		if n.Color != "" {
			m["color"] = n.Color
		}
		out.Nodes = append(out.Nodes, m)
	}

	for _, l := range d.Links {
		m := mergeAttrs(l.Attrs)
		if l.ID != "" {
			m["id"] = l.ID
		}
		m["source"], m["target"] = l.SourceID, l.TargetID
		if l.Color != "" {
			m["color"] = l.Color
		}
		if l.Width != 0 {
			m["width"] = l.Width
		}
		if len(l.Dash) > 0 {
			m["dash"] = l.Dash
		}
		if l.Curvature != 0 {
			m["curvature"] = l.Curvature
		}
		out.Links = append(out.Links, m)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	return nil
}

func mergeAttrs(attrs map[string]any) map[string]any {
	m := make(map[string]any, len(attrs)+4)
	for k, v := range attrs {
		m[k] = v
	}
	return m
}
