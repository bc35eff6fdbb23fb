package sim

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/engine"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

// State is the lifecycle state of a [Controller].
type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Stop reasons reported to OnEngineStop hooks.
const (
	ReasonTicks = "ticks"
	ReasonTime  = "time"
	ReasonAlpha = "alpha"
)

// Options tunes the engine and the cooldown policy.
type Options struct {
	AlphaDecay    float64
	AlphaTarget   float64
	VelocityDecay float64

	// AlphaMin stops the simulation once alpha falls below it. Zero
	// disables the check.
	AlphaMin float64

	// WarmupTicks are run synchronously by Configure before the first
	// frame.
	WarmupTicks int

	// CooldownTicks caps the frames that tick the engine after a reset.
	CooldownTicks int

	// CooldownTime caps the wall-clock time after a reset.
	CooldownTime time.Duration

	OnEngineTick func()
	OnEngineStop func()
}

// DefaultOptions returns d3-force compatible tuning with an unlimited tick
// cap and a 15 second time budget.
func DefaultOptions() Options {
	return Options{
		AlphaDecay:    engine.DefaultAlphaDecay,
		VelocityDecay: engine.DefaultVelocityDecay,
		CooldownTicks: math.MaxInt,
		CooldownTime:  15 * time.Second,
	}
}

// Controller owns the run/cooldown state of one engine.
type Controller struct {
	eng    engine.Engine
	opts   Options
	logger *log.Logger
	now    func() time.Time

	state     State
	ticks     int
	startedAt time.Time
}

// Option configures a Controller at construction.
type Option func(*Controller)

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces time.Now, for deterministic cooldown tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// New returns an Idle controller driving eng.
func New(eng engine.Engine, opts Options, options ...Option) *Controller {
	c := &Controller{
		eng:    eng,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, o := range options {
		o(c)
	}
	c.SetOptions(opts)
	return c
}

// Engine returns the driven engine.
func (c *Controller) Engine() engine.Engine { return c.eng }

// Options returns the current tuning.
func (c *Controller) Options() Options { return c.opts }

// SetOptions replaces the tuning and pushes the decay settings to the
// engine. The lifecycle state is unchanged.
func (c *Controller) SetOptions(opts Options) {
	c.opts = opts
	c.eng.SetAlphaDecay(opts.AlphaDecay)
	c.eng.SetAlphaTarget(opts.AlphaTarget)
	c.eng.SetVelocityDecay(opts.VelocityDecay)
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Ticks returns the frame count since the last countdown reset.
func (c *Controller) Ticks() int { return c.ticks }

// Configure stops the engine, resets alpha to 1 and seeds it with nodes and
// links. constrain, when non-nil, runs next so layout constraints are in
// place before the warmup ticks. The controller ends up Running with a
// fresh countdown.
func (c *Controller) Configure(nodes []*graph.Node, links []*graph.Link, constrain func(engine.Engine)) {
	c.eng.Stop()
	c.eng.SetAlpha(1)
	c.eng.SetNodes(nodes)
	if lf, ok := c.eng.Force(engine.ForceLink).(engine.LinkForce); ok {
		lf.SetLinks(links)
	}
	observability.Simulation().OnConfigure(len(nodes), len(links))

	if constrain != nil {
		constrain(c.eng)
	}

	c.Warmup()
	c.ResetCountdown()
	c.logger.Debug("simulation configured", "nodes", len(nodes), "links", len(links), "warmup", c.opts.WarmupTicks)
}

// Warmup runs up to WarmupTicks engine ticks without frames, stopping early
// once alpha drops below a positive AlphaMin.
func (c *Controller) Warmup() {
	for i := 0; i < c.opts.WarmupTicks && !c.belowAlphaMin(); i++ {
		c.eng.Tick()
	}
}

// Pause returns to Idle without touching the engine. Used while new graph
// data is pending.
func (c *Controller) Pause() { c.state = Idle }

// ResetCountdown clears the tick counter, restarts the cooldown clock and
// enters Running.
func (c *Controller) ResetCountdown() {
	c.ticks = 0
	c.startedAt = c.now()
	c.state = Running
}

// Reheat sets alpha back to 1 and resets the countdown from any state.
func (c *Controller) Reheat() {
	c.eng.SetAlpha(1)
	c.ResetCountdown()
}

// AdvanceFrame performs one frame of simulation and reports whether the
// engine ticked. It is a no-op outside Running.
func (c *Controller) AdvanceFrame() bool {
	if c.state != Running {
		return false
	}

	c.ticks++
	if reason := c.cooldownReason(); reason != "" {
		c.state = Stopped
		c.eng.Stop()
		elapsed := c.now().Sub(c.startedAt)
		c.logger.Debug("simulation stopped", "reason", reason, "ticks", c.ticks, "elapsed", elapsed, "alpha", c.eng.Alpha())
		observability.Simulation().OnEngineStop(c.ticks, reason, elapsed)
		if c.opts.OnEngineStop != nil {
			c.opts.OnEngineStop()
		}
		return false
	}

	c.eng.Tick()
	observability.Simulation().OnEngineTick(c.ticks, c.eng.Alpha())
	if c.opts.OnEngineTick != nil {
		c.opts.OnEngineTick()
	}
	return true
}

func (c *Controller) cooldownReason() string {
	switch {
	case c.ticks > c.opts.CooldownTicks:
		return ReasonTicks
	case c.now().Sub(c.startedAt) > c.opts.CooldownTime:
		return ReasonTime
	case c.belowAlphaMin():
		return ReasonAlpha
	}
	return ""
}

func (c *Controller) belowAlphaMin() bool {
	return c.opts.AlphaMin > 0 && c.eng.Alpha() < c.opts.AlphaMin
}
