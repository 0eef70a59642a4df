// Package metrics exports monitor activity as Prometheus series.
package metrics

import (
	"net/http"
	"time"

	"codeberg.org/mutker/sysalert/internal/alert"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sysalert"

// Recorder implements alert.Recorder on top of a Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	emitted        *prometheus.CounterVec
	suppressed     *prometheus.CounterVec
	cleared        *prometheus.CounterVec
	samplerFailed  *prometheus.CounterVec
	observerFailed prometheus.Counter
	cycleDuration  prometheus.Histogram
	cycles         prometheus.Counter
	lastCycle      prometheus.Gauge
}

var _ alert.Recorder = (*Recorder)(nil)

// New registers all series on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		emitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_emitted_total",
				Help:      "Notifications delivered to observers",
			},
			[]string{"type", "severity"},
		),
		suppressed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_suppressed_total",
				Help:      "Breaches suppressed by the cooldown",
			},
			[]string{"type"},
		),
		cleared: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_cleared_total",
				Help:      "Active alerts cleared by recovery",
			},
			[]string{"type"},
		),
		samplerFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sampler_failures_total",
				Help:      "Failed or panicking metric reads",
			},
			[]string{"family"},
		),
		observerFailed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "observer_failures_total",
				Help:      "Observer deliveries that returned an error or panicked",
			},
		),
		cycleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cycle_duration_seconds",
				Help:      "Time taken by one threshold check",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		cycles: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_total",
				Help:      "Completed threshold checks",
			},
		),
		lastCycle: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_cycle_timestamp_seconds",
				Help:      "Unix time of the last completed threshold check",
			},
		),
	}
}

func (r *Recorder) Emitted(t alert.Type, sev alert.Severity) {
	r.emitted.WithLabelValues(t.String(), sev.String()).Inc()
}

func (r *Recorder) Suppressed(t alert.Type) {
	r.suppressed.WithLabelValues(t.String()).Inc()
}

func (r *Recorder) Cleared(t alert.Type) {
	r.cleared.WithLabelValues(t.String()).Inc()
}

func (r *Recorder) SamplerFailed(family alert.Family) {
	r.samplerFailed.WithLabelValues(string(family)).Inc()
}

func (r *Recorder) ObserverFailed(count int) {
	r.observerFailed.Add(float64(count))
}

func (r *Recorder) CycleCompleted(d time.Duration) {
	r.cycleDuration.Observe(d.Seconds())
	r.cycles.Inc()
	r.lastCycle.SetToCurrentTime()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
