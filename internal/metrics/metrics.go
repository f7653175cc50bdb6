package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/ski-conditions/internal/weather"
)

// Recorder receives the outcome of every refresh cycle.
type Recorder interface {
	ObserveCycle(result weather.FleetResult, duration time.Duration)
	Handler() http.Handler
}

type promRecorder struct {
	registry *prometheus.Registry

	cyclesTotal        prometheus.Counter
	cycleDuration      prometheus.Histogram
	locationsFailed    prometheus.Gauge
	locationFailures   *prometheus.CounterVec
	locationsRefreshed prometheus.Gauge
}

// New returns a Prometheus recorder on its own registry, or a no-op
// recorder when disabled.
func New(enabled bool) Recorder {
	if !enabled {
		return noopRecorder{}
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &promRecorder{
		registry: reg,
		cyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ski_refresh_cycles_total",
			Help: "Total number of completed refresh cycles",
		}),
		cycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ski_refresh_cycle_duration_seconds",
			Help:    "Duration of refresh cycles in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		locationsFailed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ski_locations_failed",
			Help: "Number of locations that failed in the last cycle",
		}),
		locationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ski_location_failures_total",
			Help: "Total number of failed refreshes per location",
		}, []string{"location"}),
		locationsRefreshed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ski_locations_refreshed",
			Help: "Number of locations summarized in the last cycle",
		}),
	}
}

func (r *promRecorder) ObserveCycle(result weather.FleetResult, duration time.Duration) {
	r.cyclesTotal.Inc()
	r.cycleDuration.Observe(duration.Seconds())

	failed := 0
	for _, e := range result.Entries {
		if !e.OK() {
			failed++
			r.locationFailures.WithLabelValues(e.Location.Key()).Inc()
		}
	}
	r.locationsFailed.Set(float64(failed))
	r.locationsRefreshed.Set(float64(len(result.Entries) - failed))
}

func (r *promRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

type noopRecorder struct{}

func (noopRecorder) ObserveCycle(_ weather.FleetResult, _ time.Duration) {}
func (noopRecorder) Handler() http.Handler                               { return nil }
