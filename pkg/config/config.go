// Package config loads scene configuration files.
//
// A scene file is TOML with six optional tables:
//
//	[graph]
//	node_id = "id"         # JSON key of node ids
//	link_source = "source" # JSON keys of link endpoints
//	link_target = "target"
//
//	[dag]
//	mode = "td"            # none, td, bu, lr, rl, radialin, radialout
//	level_distance = 0     # 0 = automatic
//	filter_attr = "layered" # nodes with layered=false are left free
//
//	[simulation]
//	alpha_decay = 0.0228
//	alpha_target = 0
//	velocity_decay = 0.4
//	alpha_min = 0
//	warmup_ticks = 0
//	cooldown_ticks = 0     # 0 = unlimited
//	cooldown_time = "15s"
//
//	[nodes]
//	rel_size = 4
//	color = ""
//
//	[links]
//	color = ""
//	width = 1
//	dash = []
//	curvature = 0
//	particles = 0
//	particle_speed = 0.01
//	particle_width = 4
//	particle_color = ""
//
//	[canvas]
//	width = 800
//	height = 600
//	scale = 1
//	background = "#ffffff"
//
// Keys left out keep the defaults above. Per-node and per-link fields in the
// graph file take precedence over the style defaults in [nodes] and [links].
package config

import (
	"bytes"
	"cmp"
	"math"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/forcegraph/pkg/engine"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/forcegraph"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/sim"
)

// Config is a complete scene configuration.
type Config struct {
	Graph      Graph      `toml:"graph" json:"graph"`
	DAG        DAG        `toml:"dag" json:"dag"`
	Simulation Simulation `toml:"simulation" json:"simulation"`
	Nodes      Nodes      `toml:"nodes" json:"nodes"`
	Links      Links      `toml:"links" json:"links"`
	Canvas     Canvas     `toml:"canvas" json:"canvas"`
}

// Graph names the keys graph files use for ids and endpoints.
type Graph struct {
	NodeID     string `toml:"node_id" json:"node_id"`
	LinkSource string `toml:"link_source" json:"link_source"`
	LinkTarget string `toml:"link_target" json:"link_target"`
}

// DecodeOptions returns the graph decoding options for g.
func (g Graph) DecodeOptions() []graph.DecodeOption {
	return []graph.DecodeOption{graph.WithFields(graph.Fields{
		NodeID:     g.NodeID,
		LinkSource: g.LinkSource,
		LinkTarget: g.LinkTarget,
	})}
}

// DAG configures layout constraints.
type DAG struct {
	Mode          layout.Mode `toml:"mode" json:"mode"`
	LevelDistance float64     `toml:"level_distance" json:"level_distance"`
	FilterAttr    string      `toml:"filter_attr" json:"filter_attr"`
}

// Simulation configures engine tuning and cooldown.
type Simulation struct {
	AlphaDecay    float64       `toml:"alpha_decay" json:"alpha_decay"`
	AlphaTarget   float64       `toml:"alpha_target" json:"alpha_target"`
	VelocityDecay float64       `toml:"velocity_decay" json:"velocity_decay"`
	AlphaMin      float64       `toml:"alpha_min" json:"alpha_min"`
	WarmupTicks   int           `toml:"warmup_ticks" json:"warmup_ticks"`
	CooldownTicks int           `toml:"cooldown_ticks" json:"cooldown_ticks"`
	CooldownTime  time.Duration `toml:"cooldown_time" json:"cooldown_time"`
}

// Nodes configures the default node painter.
type Nodes struct {
	RelSize float64 `toml:"rel_size" json:"rel_size"`
	Color   string  `toml:"color" json:"color"`
}

// Links configures link strokes and particles.
type Links struct {
	Color         string    `toml:"color" json:"color"`
	Width         float64   `toml:"width" json:"width"`
	Dash          []float64 `toml:"dash" json:"dash"`
	Curvature     float64   `toml:"curvature" json:"curvature"`
	Particles     float64   `toml:"particles" json:"particles"`
	ParticleSpeed float64   `toml:"particle_speed" json:"particle_speed"`
	ParticleWidth float64   `toml:"particle_width" json:"particle_width"`
	ParticleColor string    `toml:"particle_color" json:"particle_color"`
}

// Canvas configures the output surface.
type Canvas struct {
	Width      int     `toml:"width" json:"width"`
	Height     int     `toml:"height" json:"height"`
	Scale      float64 `toml:"scale" json:"scale"`
	Background string  `toml:"background" json:"background"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Simulation: Simulation{
			AlphaDecay:    engine.DefaultAlphaDecay,
			VelocityDecay: engine.DefaultVelocityDecay,
			CooldownTime:  15 * time.Second,
		},
		Nodes: Nodes{RelSize: forcegraph.DefaultNodeRelSize},
		Links: Links{
			Width:         1,
			ParticleSpeed: 0.01,
			ParticleWidth: 4,
		},
		Canvas: Canvas{
			Width:      800,
			Height:     600,
			Scale:      1,
			Background: "#ffffff",
		},
	}
}

// Load reads and validates a scene file. Keys missing from the file keep
// their defaults; unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return cfg, nil
}

// Parse decodes and validates TOML on top of [Default].
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	if err != nil {
		code := errors.ErrCodeInvalidConfig
		if errors.GetCode(err) == errors.ErrCodeInvalidDAGMode {
			code = errors.ErrCodeInvalidDAGMode
		}
		return nil, errors.Wrap(code, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var v errors.ValidationError
	if g := c.Graph; g.LinkSource != "" && g.LinkSource == g.LinkTarget {
		v.Add("graph.link_target", "must differ from graph.link_source (both %q)", g.LinkSource)
	}
	v.ValidateNonNegative("dag.level_distance", c.DAG.LevelDistance)
	v.ValidateFraction("simulation.alpha_decay", c.Simulation.AlphaDecay)
	v.ValidateFraction("simulation.alpha_target", c.Simulation.AlphaTarget)
	v.ValidateFraction("simulation.velocity_decay", c.Simulation.VelocityDecay)
	v.ValidateFraction("simulation.alpha_min", c.Simulation.AlphaMin)
	v.ValidateNonNegative("simulation.warmup_ticks", float64(c.Simulation.WarmupTicks))
	v.ValidateNonNegative("simulation.cooldown_ticks", float64(c.Simulation.CooldownTicks))
	if c.Simulation.CooldownTime <= 0 {
		v.Add("simulation.cooldown_time", "must be positive (got %s)", c.Simulation.CooldownTime)
	}
	v.ValidateNonNegative("nodes.rel_size", c.Nodes.RelSize)
	v.ValidateNonNegative("links.width", c.Links.Width)
	v.ValidateNonNegative("links.particle_speed", c.Links.ParticleSpeed)
	v.ValidateNonNegative("links.particle_width", c.Links.ParticleWidth)
	for _, d := range c.Links.Dash {
		if d < 0 {
			v.Add("links.dash", "segments must not be negative (got %g)", d)
			break
		}
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		v.Add("canvas", "size must be positive (got %dx%d)", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.Scale <= 0 {
		v.Add("canvas.scale", "must be positive (got %g)", c.Canvas.Scale)
	}
	return v.Err()
}

// SimOptions converts the [simulation] table. A zero tick cap means
// unlimited.
func (c *Config) SimOptions() sim.Options {
	s := c.Simulation
	ticks := s.CooldownTicks
	if ticks == 0 {
		ticks = math.MaxInt
	}
	return sim.Options{
		AlphaDecay:    s.AlphaDecay,
		AlphaTarget:   s.AlphaTarget,
		VelocityDecay: s.VelocityDecay,
		AlphaMin:      s.AlphaMin,
		WarmupTicks:   s.WarmupTicks,
		CooldownTicks: ticks,
		CooldownTime:  s.CooldownTime,
	}
}

// RenderConfig converts the [links] and [canvas] tables. Link fields set in
// the graph override the table values.
func (c *Config) RenderConfig() render.Config {
	l := c.Links
	cfg := render.DefaultConfig()
	cfg.Scale = c.Canvas.Scale
	cfg.LinkColor = func(link *graph.Link) string {
		return cmp.Or(link.Color, l.Color)
	}
	cfg.LinkWidth = func(link *graph.Link) float64 {
		return cmp.Or(link.Width, l.Width)
	}
	cfg.LinkDash = func(link *graph.Link) []float64 {
		if len(link.Dash) > 0 {
			return link.Dash
		}
		return l.Dash
	}
	cfg.LinkCurvature = func(link *graph.Link) float64 {
		return cmp.Or(link.Curvature, l.Curvature)
	}
	cfg.ParticleSpeed = graph.ConstLink(l.ParticleSpeed)
	cfg.ParticleWidth = graph.ConstLink(l.ParticleWidth)
	if l.ParticleColor != "" {
		cfg.ParticleColor = graph.ConstLink(l.ParticleColor)
	}
	return cfg
}

// NodeFilter returns the DAG node filter for filter_attr, or nil.
func (c *Config) NodeFilter() layout.NodeFilter {
	if c.DAG.FilterAttr == "" {
		return nil
	}
	include := graph.NodeAttr(c.DAG.FilterAttr, true)
	return func(n *graph.Node) bool { return include(n) }
}

// Options returns the facade options for this configuration.
func (c *Config) Options() []forcegraph.Option {
	nodeColor := func(n *graph.Node) string { return cmp.Or(n.Color, c.Nodes.Color) }
	return []forcegraph.Option{
		forcegraph.WithDAGMode(c.DAG.Mode),
		forcegraph.WithDAGLevelDistance(c.DAG.LevelDistance),
		forcegraph.WithDAGNodeFilter(c.NodeFilter()),
		forcegraph.WithSimulation(c.SimOptions()),
		forcegraph.WithRender(c.RenderConfig()),
		forcegraph.WithNodeRelSize(c.Nodes.RelSize),
		forcegraph.WithNodeStyle(graph.NodeVal, nodeColor),
		forcegraph.WithParticles(c.particleCount()),
	}
}

func (c *Config) particleCount() graph.LinkFunc[float64] {
	fallback := c.Links.Particles
	return func(l *graph.Link) float64 {
		return graph.LinkAttr("particles", fallback)(l)
	}
}
