package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/forcegraph/pkg/observability"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

// metrics exports observability hook events as Prometheus series. One
// instance implements every hook interface.
type metrics struct {
	registry *prometheus.Registry

	configures   prometheus.Counter
	ticks        prometheus.Counter
	alpha        prometheus.Gauge
	stops        *prometheus.CounterVec
	frames       prometheus.Counter
	frameLinks   prometheus.Gauge
	frameBatches prometheus.Gauge
	particles    prometheus.Gauge
	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
	cacheLookups *prometheus.CounterVec
	cacheBytes   *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &metrics{
		registry: reg,
		configures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "forcegraph",
			Subsystem: "sim",
			Name:      "configures_total",
			Help:      "Simulations reseeded by an update",
		}),
		ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: "forcegraph",
			Subsystem: "sim",
			Name:      "engine_ticks_total",
			Help:      "Engine ticks across all simulations",
		}),
		alpha: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "forcegraph",
			Subsystem: "sim",
			Name:      "alpha",
			Help:      "Alpha after the most recent tick",
		}),
		// Labels: reason (ticks, time, alpha)
		stops: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forcegraph",
			Subsystem: "sim",
			Name:      "stops_total",
			Help:      "Simulations that cooled down, by reason",
		}, []string{"reason"}),
		frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: "forcegraph",
			Subsystem: "render",
			Name:      "frames_total",
			Help:      "Frames painted",
		}),
		frameLinks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "forcegraph",
			Subsystem: "render",
			Name:      "frame_links",
			Help:      "Links painted in the most recent frame",
		}),
		frameBatches: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "forcegraph",
			Subsystem: "render",
			Name:      "frame_batches",
			Help:      "Stroke batches in the most recent frame",
		}),
		particles: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "forcegraph",
			Subsystem: "render",
			Name:      "frame_particles",
			Help:      "Particles painted in the most recent frame",
		}),
		// Labels: status (ok, error)
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forcegraph",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Settled render runs",
		}, []string{"status"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "forcegraph",
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Settled render run latency",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		// Labels: type (layout, artifact), result (hit, miss)
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forcegraph",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by entry type and result",
		}, []string{"type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forcegraph",
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by entry type",
		}, []string{"type"}),
	}
}

// install registers m as the process-wide observability hooks.
func (m *metrics) install() {
	observability.SetSimulationHooks(m)
	observability.SetRenderHooks(m)
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) OnConfigure(int, int) { m.configures.Inc() }

func (m *metrics) OnEngineTick(_ int, alpha float64) {
	m.ticks.Inc()
	m.alpha.Set(alpha)
}

func (m *metrics) OnEngineStop(_ int, reason string, _ time.Duration) {
	m.stops.WithLabelValues(reason).Inc()
}

func (m *metrics) OnFrame(_, links, batches, particles int) {
	m.frames.Inc()
	m.frameLinks.Set(float64(links))
	m.frameBatches.Set(float64(batches))
	m.particles.Set(float64(particles))
}

func (m *metrics) OnRunStart(context.Context, int, []string) {}

func (m *metrics) OnRunComplete(_ context.Context, _ int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Observe(d.Seconds())
}

func (m *metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (m *metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (m *metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

var (
	_ observability.SimulationHooks = (*metrics)(nil)
	_ observability.RenderHooks     = (*metrics)(nil)
	_ observability.PipelineHooks   = (*metrics)(nil)
	_ observability.CacheHooks      = (*metrics)(nil)
)
