package renderer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the render counters exported to prometheus. The light tree
// diagnostics are advisory and never feed back into sampling.
type Metrics struct {
	LightsSampled     prometheus.Counter
	TraversalFailures prometheus.Counter
	Samples           prometheus.Counter
	InvalidSamples    prometheus.Counter
	Tiles             prometheus.Counter
	RenderSeconds     prometheus.Histogram
}

// NewMetrics registers the render metrics with reg. Pass a fresh
// prometheus.NewRegistry() when more than one renderer lives in a process.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LightsSampled: factory.NewCounter(prometheus.CounterOpts{
			Name: "lighttree_lights_sampled_total",
			Help: "Emitters reached by light tree traversals",
		}),
		TraversalFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "lighttree_traversal_failures_total",
			Help: "Traversals abandoned because both children had zero importance",
		}),
		Samples: factory.NewCounter(prometheus.CounterOpts{
			Name: "lighttree_samples_total",
			Help: "Camera paths traced",
		}),
		InvalidSamples: factory.NewCounter(prometheus.CounterOpts{
			Name: "lighttree_invalid_samples_total",
			Help: "Camera paths dropped for NaN or infinite radiance",
		}),
		Tiles: factory.NewCounter(prometheus.CounterOpts{
			Name: "lighttree_tiles_total",
			Help: "Image tiles rendered",
		}),
		RenderSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lighttree_render_seconds",
			Help:    "Render wall time in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10), // 10ms to ~45min
		}),
	}
}

// observeTile adds the counters of a finished tile
func (m *Metrics) observeTile(stats RenderStats) {
	if m == nil {
		return
	}
	m.LightsSampled.Add(float64(stats.Diagnostics.LightsSampled))
	m.TraversalFailures.Add(float64(stats.Diagnostics.TraversalFailures))
	m.Samples.Add(float64(stats.TotalSamples))
	m.InvalidSamples.Add(float64(stats.InvalidSamples))
	m.Tiles.Inc()
}

func (m *Metrics) observeRender(stats RenderStats) {
	if m == nil {
		return
	}
	m.RenderSeconds.Observe(stats.Duration.Seconds())
}
