package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,png,json", []string{"svg", "png", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "graph.json", "graph"},
		{"", "dir/graph.json", "dir/graph"},
		{"out.svg", "graph.json", "out"},
		{"out.png", "graph.json", "out"},
		{"out/deps", "graph.json", "out/deps"},
		{"out.txt", "graph.json", "out.txt"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths("frame.out", "g.json", []string{"svg"})
	if got["svg"] != "frame.out" {
		t.Errorf("single format output = %q, want frame.out", got["svg"])
	}

	got = outputPaths("", "g.json", []string{"svg", "png"})
	if got["svg"] != "g.svg" || got["png"] != "g.png" {
		t.Errorf("multi format outputs = %v", got)
	}
}

func writeGraph(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "graph.json")
	src := `{"nodes":[{"id":"a"},{"id":"b"},{"id":"c"}],"links":[{"source":"a","target":"b"},{"source":"b","target":"c"}]}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSceneFlagsLoad(t *testing.T) {
	dir := t.TempDir()
	graphPath := writeGraph(t, dir)
	cfgPath := filepath.Join(dir, "scene.toml")
	if err := os.WriteFile(cfgPath, []byte("[dag]\nmode = \"lr\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := sceneFlags{config: cfgPath}
	data, cfg, err := f.load(graphPath)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if len(data.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(data.Nodes))
	}
	if cfg.DAG.Mode != layout.ModeLeftRight {
		t.Errorf("mode = %v, want lr", cfg.DAG.Mode)
	}

	f.dagMode = "radial-out"
	if _, cfg, _ = f.load(graphPath); cfg.DAG.Mode != layout.ModeRadialOut {
		t.Errorf("--dag-mode override = %v, want radialout", cfg.DAG.Mode)
	}

	f.dagMode = "sideways"
	if _, _, err := f.load(graphPath); err == nil {
		t.Error("load() should reject an unknown dag mode")
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	graphPath := writeGraph(t, dir)
	base := filepath.Join(dir, "out", "frame")

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"render", graphPath, "--no-cache", "--frames", "10", "--dag-mode", "td", "-f", "svg,json", "-o", base})
	if err := root.Execute(); err != nil {
		t.Fatalf("render error = %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("svg output missing <svg element")
	}

	out, err := graph.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("json output: %v", err)
	}
	for _, n := range out.Nodes {
		if !n.Positioned() {
			t.Errorf("node %s not positioned", n.ID)
		}
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"render", "missing.json", "-f", "gif"})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "gif") {
		t.Errorf("render -f gif error = %v, want unsupported format", err)
	}
}
