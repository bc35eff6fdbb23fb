package forcegraph

import (
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/engine"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/render/surface"
	"github.com/matzehuels/forcegraph/pkg/sim"
)

func chain(ids ...string) *graph.Data {
	d := &graph.Data{}
	for i, id := range ids {
		d.Nodes = append(d.Nodes, &graph.Node{ID: id})
		if i > 0 {
			d.Links = append(d.Links, &graph.Link{SourceID: ids[i-1], TargetID: id})
		}
	}
	return d
}

func quiet() Option { return WithLogger(log.New(io.Discard)) }

func TestChainTopDown(t *testing.T) {
	d := chain("A", "B", "C", "D")
	fg := New(nil, quiet(), WithGraphData(d), WithDAGMode(layout.ModeTopDown), WithDAGLevelDistance(10))

	for range 5 {
		fg.TickFrame()
	}

	want := map[string]float64{"A": -15, "B": -5, "C": 5, "D": 15}
	for _, n := range d.Nodes {
		if n.Fy == nil || *n.Fy != want[n.ID] {
			t.Errorf("%s.Fy = %v, want %v", n.ID, n.Fy, want[n.ID])
			continue
		}
		if n.Y != want[n.ID] {
			t.Errorf("%s.Y = %v, want pinned %v", n.ID, n.Y, want[n.ID])
		}
	}
	if got := fg.Depths().Max(); got != 3 {
		t.Errorf("Depths().Max() = %d, want 3", got)
	}
}

func TestUpdateResolvesLinks(t *testing.T) {
	d := chain("a", "b")
	d.Links = append(d.Links, &graph.Link{SourceID: "a", TargetID: "missing"})
	fg := New(nil, quiet(), WithGraphData(d))

	fg.Update()

	links := fg.Links()
	if len(links) != 1 {
		t.Fatalf("Links() = %d, want 1", len(links))
	}
	if links[0].Source != d.Nodes[0] || links[0].Target != d.Nodes[1] {
		t.Error("link endpoints are not the node objects")
	}
	lf := fg.Force(engine.ForceLink).(*engine.Link)
	if len(lf.Links()) != 1 {
		t.Errorf("link force has %d links, want 1", len(lf.Links()))
	}
}

func TestUpdateCallbacks(t *testing.T) {
	var calls []string
	fg := New(nil, quiet(),
		WithGraphData(chain("a", "b")),
		WithOnUpdate(func() { calls = append(calls, "update") }),
		WithOnFinishUpdate(func() { calls = append(calls, "finish") }),
	)

	fg.TickFrame()
	fg.TickFrame()

	if want := []string{"update", "finish"}; !slices.Equal(calls, want) {
		t.Errorf("callbacks = %v, want %v", calls, want)
	}
}

func TestCooldownStopsSimulation(t *testing.T) {
	opts := sim.DefaultOptions()
	opts.CooldownTicks = 5
	var ticks, stops int
	opts.OnEngineTick = func() { ticks++ }
	opts.OnEngineStop = func() { stops++ }
	rec := surface.NewRecorder()
	fg := New(rec, quiet(), WithGraphData(chain("a", "b", "c")), WithSimulation(opts))

	frames := fg.Run(100)

	if frames != 6 || ticks != 5 || stops != 1 {
		t.Errorf("Run() = %d frames, %d ticks, %d stops; want 6, 5, 1", frames, ticks, stops)
	}
	if fg.State() != sim.Stopped {
		t.Errorf("State() = %v, want stopped", fg.State())
	}

	before := len(rec.Calls)
	fg.TickFrame()
	if len(rec.Calls) == before {
		t.Error("frames should still be painted after cooldown")
	}

	fg.Reheat()
	if fg.State() != sim.Running || fg.Engine().Alpha() != 1 {
		t.Errorf("after Reheat: state %v alpha %v", fg.State(), fg.Engine().Alpha())
	}
}

func TestSetGraphDataPauses(t *testing.T) {
	fg := New(nil, quiet(), WithGraphData(chain("a", "b")))
	fg.TickFrame()
	if fg.State() != sim.Running {
		t.Fatalf("State() = %v, want running", fg.State())
	}

	fg.SetGraphData(chain("x", "y", "z"))
	if fg.State() != sim.Idle {
		t.Errorf("State() = %v, want idle", fg.State())
	}
	fg.TickFrame()
	if len(fg.Links()) != 2 || fg.State() != sim.Running {
		t.Errorf("after TickFrame: %d links, state %v", len(fg.Links()), fg.State())
	}
}

func TestSetDAGModeNoneReleasesPins(t *testing.T) {
	d := chain("a", "b", "c")
	fg := New(nil, quiet(), WithGraphData(d), WithDAGMode(layout.ModeLeftRight))
	fg.Update()
	if d.Nodes[0].Fx == nil {
		t.Fatal("lr mode should pin x")
	}

	fg.SetDAGMode(layout.ModeNone)

	for _, n := range d.Nodes {
		if n.Fx != nil || n.Fy != nil {
			t.Errorf("%s still pinned", n.ID)
		}
	}
	fg.Update()
	if fg.Depths() != nil {
		t.Errorf("Depths() = %v, want nil with dag mode off", fg.Depths())
	}
}

func TestRadialMode(t *testing.T) {
	fg := New(nil, quiet(), WithGraphData(chain("a", "b", "c")), WithDAGMode(layout.ModeRadialOut))
	fg.Update()

	if fg.Force(layout.RadialForceName) == nil {
		t.Fatal("radial force not installed")
	}
	if want := layout.LevelDistance(3, 2, layout.ModeRadialOut); fg.LevelDistance() != want {
		t.Errorf("LevelDistance() = %v, want %v", fg.LevelDistance(), want)
	}

	fg.SetDAGMode(layout.ModeTopDown)
	fg.Update()
	if fg.Force(layout.RadialForceName) != nil {
		t.Error("radial force should be removed")
	}
}

func TestDAGErrorHandler(t *testing.T) {
	d := chain("a", "b")
	d.Links = append(d.Links, &graph.Link{SourceID: "b", TargetID: "a"})
	var loops [][]string
	fg := New(nil, quiet(), WithGraphData(d), WithDAGMode(layout.ModeTopDown),
		WithDAGErrorHandler(func(loop []string) { loops = append(loops, loop) }))

	fg.Update()

	if len(loops) != 1 {
		t.Errorf("loop handler called %d times, want 1", len(loops))
	}
	if fg.Depths()["b"] != 1 {
		t.Errorf("depth(b) = %d, want 1", fg.Depths()["b"])
	}
}

func TestParticles(t *testing.T) {
	d := chain("a", "b")
	fg := New(surface.NewRecorder(), quiet(), WithGraphData(d), WithParticles(graph.ConstLink(2.0)))
	fg.TickFrame()

	l := fg.Links()[0]
	if got := len(fg.pipe.Particles(l)); got != 2 {
		t.Errorf("particles = %d, want 2", got)
	}
	fg.EmitParticle(l)
	if got := len(fg.pipe.Particles(l)); got != 3 {
		t.Errorf("particles after emit = %d, want 3", got)
	}
}

func TestTickFramePaints(t *testing.T) {
	d := chain("a", "b")
	d.Links[0].Curvature = 0.5
	rec := surface.NewRecorder()
	fg := New(rec, quiet(), WithGraphData(d))

	stats := fg.TickFrame()

	if stats.Nodes != 2 || stats.Links != 1 {
		t.Errorf("TickFrame() = %+v, want 2 nodes, 1 link", stats)
	}
	if len(rec.Filter("arc")) != 2 || len(rec.Filter("quadraticCurveTo")) != 1 {
		t.Errorf("ops = %v", rec.Ops())
	}
	if cp, ok := fg.ControlPoints(d.Links[0]); !ok || !cp.Quadratic() {
		t.Errorf("ControlPoints() = %v, %v", cp, ok)
	}
}

func TestPaintSnapshot(t *testing.T) {
	fg := New(nil, quiet(), WithGraphData(chain("a", "b")))
	fg.Run(3)

	rec := surface.NewRecorder()
	stats := fg.Paint(rec)

	if stats.Nodes != 2 || stats.Links != 1 || stats.Batches != 1 {
		t.Errorf("Paint() = %+v", stats)
	}
}
