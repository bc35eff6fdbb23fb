package config

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
)

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[dag]
mode = "top-down"
level_distance = 12.5

[simulation]
warmup_ticks = 20
cooldown_time = "3s"

[links]
dash = [4, 2]
particles = 2
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.DAG.Mode != layout.ModeTopDown || cfg.DAG.LevelDistance != 12.5 {
		t.Errorf("DAG = %+v", cfg.DAG)
	}
	if cfg.Simulation.WarmupTicks != 20 || cfg.Simulation.CooldownTime != 3*time.Second {
		t.Errorf("Simulation = %+v", cfg.Simulation)
	}
	if cfg.Simulation.VelocityDecay != 0.4 {
		t.Errorf("VelocityDecay = %v, want default 0.4", cfg.Simulation.VelocityDecay)
	}
	if !slices.Equal(cfg.Links.Dash, []float64{4, 2}) || cfg.Links.Width != 1 {
		t.Errorf("Links = %+v", cfg.Links)
	}
	if cfg.Canvas.Width != 800 || cfg.Canvas.Height != 600 {
		t.Errorf("Canvas = %+v, want defaults", cfg.Canvas)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		codes []errors.Code
	}{
		{"syntax", "[dag\nmode=", []errors.Code{errors.ErrCodeInvalidConfig}},
		{"unknown key", "[dag]\ncolour = 1", []errors.Code{errors.ErrCodeInvalidConfig}},
		{"bad mode", "[dag]\nmode = \"diagonal\"", []errors.Code{errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidDAGMode}},
		{"bad decay", "[simulation]\nalpha_decay = 2", []errors.Code{errors.ErrCodeInvalidConfig}},
		{"same endpoint keys", "[graph]\nlink_source = \"from\"\nlink_target = \"from\"", []errors.Code{errors.ErrCodeInvalidConfig}},
		{"bad canvas", "[canvas]\nwidth = 0", []errors.Code{errors.ErrCodeInvalidConfig}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if code := errors.GetCode(err); !slices.Contains(tt.codes, code) {
				t.Errorf("GetCode() = %q, want one of %v", code, tt.codes)
			}
		})
	}
}

func TestValidateCollectsAllFields(t *testing.T) {
	cfg := Default()
	cfg.Simulation.AlphaMin = -1
	cfg.Links.Width = -2
	cfg.Canvas.Scale = 0

	err := cfg.Validate()

	var v *errors.ValidationError
	if !asValidation(err, &v) {
		t.Fatalf("Validate() = %v, want ValidationError", err)
	}
	if len(v.Fields) != 3 {
		t.Errorf("fields = %v, want 3", v.Fields)
	}
}

func asValidation(err error, target **errors.ValidationError) bool {
	e, ok := err.(*errors.Error)
	if !ok {
		return false
	}
	v, ok := e.Cause.(*errors.ValidationError)
	*target = v
	return ok
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(path, []byte("[canvas]\nbackground = \"black\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Canvas.Background != "black" {
		t.Errorf("Background = %q, want black", cfg.Canvas.Background)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadExample(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "scene.toml"))
	if err != nil {
		t.Fatalf("Load(examples/scene.toml) error: %v", err)
	}
	if cfg.DAG.Mode != layout.ModeTopDown {
		t.Errorf("Mode = %v, want td", cfg.DAG.Mode)
	}
	if cfg.Simulation.CooldownTime != 10*time.Second {
		t.Errorf("CooldownTime = %v, want 10s", cfg.Simulation.CooldownTime)
	}
	if cfg.Canvas.Height != 720 {
		t.Errorf("Canvas.Height = %d, want 720", cfg.Canvas.Height)
	}

	data, err := graph.ReadFile(filepath.Join("..", "..", "examples", "deps.json"))
	if err != nil {
		t.Fatalf("ReadFile(examples/deps.json) error: %v", err)
	}
	filter := cfg.NodeFilter()
	for _, n := range data.Nodes {
		if want := n.ID != "docs"; filter(n) != want {
			t.Errorf("NodeFilter(%s) = %v, want %v", n.ID, !want, want)
		}
	}
}

func TestGraphDecodeOptions(t *testing.T) {
	cfg, err := Parse([]byte("[graph]\nnode_id = \"name\"\nlink_source = \"from\"\nlink_target = \"to\"\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	src := `{"nodes":[{"name":"api"},{"name":"db"}],"links":[{"from":"api","to":"db"}]}`
	d, err := graph.Unmarshal([]byte(src), cfg.Graph.DecodeOptions()...)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if d.Nodes[0].ID != "api" || d.Links[0].SourceID != "api" || d.Links[0].TargetID != "db" {
		t.Errorf("decoded nodes %s, link %s->%s; want api, api->db", d.Nodes[0].ID, d.Links[0].SourceID, d.Links[0].TargetID)
	}

	if _, err := graph.Unmarshal([]byte(src), Default().Graph.DecodeOptions()...); err == nil {
		t.Error("default keys should reject nodes without an id")
	}
}

func TestSimOptions(t *testing.T) {
	cfg := Default()
	if got := cfg.SimOptions().CooldownTicks; got != math.MaxInt {
		t.Errorf("CooldownTicks = %d, want unlimited", got)
	}
	cfg.Simulation.CooldownTicks = 50
	if got := cfg.SimOptions().CooldownTicks; got != 50 {
		t.Errorf("CooldownTicks = %d, want 50", got)
	}
}

func TestRenderConfigFallbacks(t *testing.T) {
	cfg := Default()
	cfg.Links.Color = "gray"
	cfg.Links.Curvature = 0.2
	rc := cfg.RenderConfig()

	plain := &graph.Link{}
	styled := &graph.Link{Color: "red", Width: 3, Curvature: 0.5}

	if rc.LinkColor(plain) != "gray" || rc.LinkColor(styled) != "red" {
		t.Errorf("LinkColor = %q, %q", rc.LinkColor(plain), rc.LinkColor(styled))
	}
	if rc.LinkWidth(plain) != 1 || rc.LinkWidth(styled) != 3 {
		t.Errorf("LinkWidth = %v, %v", rc.LinkWidth(plain), rc.LinkWidth(styled))
	}
	if rc.LinkCurvature(plain) != 0.2 || rc.LinkCurvature(styled) != 0.5 {
		t.Errorf("LinkCurvature = %v, %v", rc.LinkCurvature(plain), rc.LinkCurvature(styled))
	}
	if rc.ParticleColor != nil {
		t.Error("ParticleColor should fall back to the link color")
	}
}

func TestNodeFilter(t *testing.T) {
	cfg := Default()
	if cfg.NodeFilter() != nil {
		t.Error("NodeFilter() should be nil without filter_attr")
	}
	cfg.DAG.FilterAttr = "layered"
	f := cfg.NodeFilter()

	tests := []struct {
		attrs map[string]any
		want  bool
	}{
		{nil, true},
		{map[string]any{"layered": true}, true},
		{map[string]any{"layered": false}, false},
		{map[string]any{"layered": "no"}, true},
	}
	for _, tt := range tests {
		if got := f(&graph.Node{Attrs: tt.attrs}); got != tt.want {
			t.Errorf("filter(%v) = %v, want %v", tt.attrs, got, tt.want)
		}
	}
}

func TestParticleCountFromAttrs(t *testing.T) {
	cfg := Default()
	cfg.Links.Particles = 1
	count := cfg.particleCount()

	if got := count(&graph.Link{}); got != 1 {
		t.Errorf("count(default) = %v, want 1", got)
	}
	if got := count(&graph.Link{Attrs: map[string]any{"particles": 3.0}}); got != 3 {
		t.Errorf("count(attr) = %v, want 3", got)
	}
}
