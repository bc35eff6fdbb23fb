package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

func TestResolve(t *testing.T) {
	a, b := &Node{ID: "a"}, &Node{ID: "b"}
	d := &Data{
		Nodes: []*Node{a, b},
		Links: []*Link{
			{ID: "ab", SourceID: "a", TargetID: "b"},
			{ID: "ax", SourceID: "a", TargetID: "missing"},
			{SourceID: "b", TargetID: "b"},
		},
	}

	links, dropped := d.Resolve()

	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if len(links) != 2 {
		t.Fatalf("len(links) = %d, want 2", len(links))
	}
	for _, l := range links {
		if !containsNode(d.Nodes, l.Source) || !containsNode(d.Nodes, l.Target) {
			t.Errorf("link %s endpoints not in node collection", l.ID)
		}
	}
	if links[0].Source != a || links[0].Target != b {
		t.Error("link ab not resolved to a->b")
	}
	if d.Links[1].Source != nil || d.Links[1].Target != nil {
		t.Error("dangling link should have nil endpoints")
	}
	if links[1].ID == "" {
		t.Error("link without id should receive one")
	}
	if !links[1].IsLoop() {
		t.Error("b->b should be a loop")
	}
}

func TestResolveReplacesStalePointers(t *testing.T) {
	old := &Node{ID: "a"}
	fresh := &Node{ID: "a"}
	l := &Link{ID: "l", SourceID: "a", TargetID: "a", Source: old, Target: old}
	d := &Data{Nodes: []*Node{fresh}, Links: []*Link{l}}

	d.Resolve()

	if l.Source != fresh || l.Target != fresh {
		t.Error("Resolve() should point links at the current node objects")
	}
}

func TestPositioned(t *testing.T) {
	a, b := &Node{ID: "a"}, &Node{ID: "b"}
	l := &Link{Source: a, Target: b}
	if l.Positioned() {
		t.Error("unplaced endpoints should not be positioned")
	}
	a.SetPosition(1, 2)
	b.SetPosition(0, 0)
	if !l.Positioned() {
		t.Error("placed endpoints should be positioned")
	}
	if (&Link{Source: a}).Positioned() {
		t.Error("unresolved link should not be positioned")
	}
}

func TestDecode(t *testing.T) {
	input := `{
	  "nodes": [
	    {"id": "a", "x": 1, "y": 2, "val": 3, "group": "core"},
	    {"id": "b", "fx": 5}
	  ],
	  "links": [
	    {"source": "a", "target": "b", "curvature": 0.5, "particles": 2, "dash": [2, 1]}
	  ]
	}`

	d, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(d.Nodes) != 2 || len(d.Links) != 1 {
		t.Fatalf("got %d nodes, %d links", len(d.Nodes), len(d.Links))
	}

	a := d.Nodes[0]
	if !a.Positioned() || a.X != 1 || a.Y != 2 {
		t.Errorf("node a position = (%v,%v) positioned=%v", a.X, a.Y, a.Positioned())
	}
	if a.Val != 3 {
		t.Errorf("node a val = %v, want 3", a.Val)
	}
	if a.Attr("group") != "core" {
		t.Errorf("node a group = %v, want core", a.Attr("group"))
	}
	if _, ok := a.Attrs["id"]; ok {
		t.Error("known fields should not leak into Attrs")
	}

	b := d.Nodes[1]
	if b.Positioned() {
		t.Error("node b has no coordinates")
	}
	if b.Fx == nil || *b.Fx != 5 || b.Fy != nil {
		t.Error("node b should be pinned on x only")
	}

	l := d.Links[0]
	if l.SourceID != "a" || l.TargetID != "b" || l.Curvature != 0.5 {
		t.Errorf("link = %+v", l)
	}
	if got := LinkAttr("particles", 0.0)(l); got != 2 {
		t.Errorf("particles attr = %v, want 2", got)
	}
	if len(l.Dash) != 2 {
		t.Errorf("dash = %v, want [2 1]", l.Dash)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"nodes": [`},
		{"empty id", `{"nodes": [{"id": ""}]}`},
		{"duplicate id", `{"nodes": [{"id": "a"}, {"id": "a"}]}`},
		{"numeric duplicate", `{"nodes": [{"id": 1}, {"id": "1"}]}`},
		{"object id", `{"nodes": [{"id": {"a": 1}}]}`},
		{"bool source", `{"nodes": [{"id": "a"}], "links": [{"source": true, "target": "a"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidGraph) {
				t.Errorf("Decode() error = %v, want %s", err, errors.ErrCodeInvalidGraph)
			}
		})
	}
}

func TestDecodeNumericIDs(t *testing.T) {
	d, err := Unmarshal([]byte(`{"nodes":[{"id":1},{"id":2.5}],"links":[{"id":7,"source":1,"target":2.5}]}`))
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if d.Nodes[0].ID != "1" || d.Nodes[1].ID != "2.5" {
		t.Errorf("node ids = %q, %q; want 1, 2.5", d.Nodes[0].ID, d.Nodes[1].ID)
	}
	l := d.Links[0]
	if l.ID != "7" || l.SourceID != "1" || l.TargetID != "2.5" {
		t.Errorf("link = %s %s->%s, want 7 1->2.5", l.ID, l.SourceID, l.TargetID)
	}
	if links, dropped := d.Resolve(); len(links) != 1 || dropped != 0 {
		t.Errorf("Resolve() = %d links, %d dropped; want 1, 0", len(links), dropped)
	}
}

func TestDecodeWithFields(t *testing.T) {
	src := `{
	  "nodes": [{"name": "a", "id": "ignored"}, {"name": "b"}],
	  "links": [{"from": "a", "to": "b", "source": "x"}]
	}`
	d, err := Unmarshal([]byte(src), WithFields(Fields{NodeID: "name", LinkSource: "from", LinkTarget: "to"}))
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	a := d.Nodes[0]
	if a.ID != "a" {
		t.Errorf("node id = %q, want a", a.ID)
	}
	if a.Attr("id") != "ignored" {
		t.Errorf("id attr = %v, want it kept as an attribute", a.Attr("id"))
	}
	if _, ok := a.Attrs["name"]; ok {
		t.Error("the id key should not leak into Attrs")
	}

	l := d.Links[0]
	if l.SourceID != "a" || l.TargetID != "b" {
		t.Errorf("link = %s->%s, want a->b", l.SourceID, l.TargetID)
	}
	if l.Attr("source") != "x" {
		t.Errorf("source attr = %v, want x", l.Attr("source"))
	}

	// Partial fields keep the remaining defaults.
	d, err = Unmarshal([]byte(`{"nodes":[{"key":"a"},{"key":"b"}],"links":[{"source":"a","target":"b"}]}`),
		WithFields(Fields{NodeID: "key"}))
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if d.Links[0].SourceID != "a" || d.Links[0].TargetID != "b" {
		t.Errorf("link = %s->%s, want a->b", d.Links[0].SourceID, d.Links[0].TargetID)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile("does/not/exist.json")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile() error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	src := `{"nodes":[{"id":"a","x":1,"y":2,"group":"g"},{"id":"b"}],"links":[{"id":"l1","source":"a","target":"b","width":2}]}`
	d, err := Unmarshal([]byte(src))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Encode(d, &buf); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	back, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if back.Nodes[0].Attr("group") != "g" || !back.Nodes[0].Positioned() {
		t.Errorf("node a lost data: %+v", back.Nodes[0])
	}
	if back.Links[0].ID != "l1" || back.Links[0].Width != 2 {
		t.Errorf("link lost data: %+v", back.Links[0])
	}
}

func TestAccessors(t *testing.T) {
	n := &Node{ID: "a", Attrs: map[string]any{"size": 4.0, "level": 2.0, "name": "x"}}

	if got := ConstNode(7)(n); got != 7 {
		t.Errorf("ConstNode = %v, want 7", got)
	}
	if got := NodeAttr("size", 1.0)(n); got != 4 {
		t.Errorf("NodeAttr(size) = %v, want 4", got)
	}
	if got := NodeAttr("level", 0)(n); got != 2 {
		t.Errorf("NodeAttr[int](level) = %v, want 2", got)
	}
	if got := NodeAttr("missing", "def")(n); got != "def" {
		t.Errorf("NodeAttr(missing) = %v, want def", got)
	}
	if got := NodeAttr("name", 1.0)(n); got != 1 {
		t.Errorf("mistyped attr should fall back, got %v", got)
	}
}

func containsNode(nodes []*Node, n *Node) bool {
	for _, m := range nodes {
		if m == n {
			return true
		}
	}
	return false
}
