// Package metrics exposes Prometheus collectors for the sketch lifecycle.
package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	builds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sketch",
			Subsystem: "build",
			Name:      "total",
			Help:      "Number of toolchain builds by result.",
		}, []string{"result"},
	)
	buildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sketch",
			Subsystem: "build",
			Name:      "duration_seconds",
			Help:      "Wall time of toolchain builds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
		},
	)
	launches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sketch",
			Subsystem: "launch",
			Name:      "total",
			Help:      "Number of terminal launches by surface and result.",
		}, []string{"surface", "result"},
	)
	stops = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sketch",
			Subsystem: "process",
			Name:      "stops_total",
			Help:      "Number of registered sketch processes terminated.",
		},
	)
	running = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sketch",
			Subsystem: "process",
			Name:      "running",
			Help:      "Sketches currently held in the running registry.",
		},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{builds, buildDuration, launches, stops, running}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
func Handler() http.Handler { return promhttp.Handler() }

// The helpers below no-op until Register has been called.

func result(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultFailure
}

// ObserveBuild records a finished build.
func ObserveBuild(ok bool, seconds float64) {
	if regOK.Load() {
		builds.WithLabelValues(result(ok)).Inc()
		buildDuration.Observe(seconds)
	}
}

// IncLaunch records a launch attempt on surface.
func IncLaunch(surface string, ok bool) {
	if regOK.Load() {
		launches.WithLabelValues(surface, result(ok)).Inc()
	}
}

// IncStop records a terminated sketch process.
func IncStop() {
	if regOK.Load() {
		stops.Inc()
	}
}

// SetRunning reports the size of the running registry.
func SetRunning(n int) {
	if regOK.Load() {
		running.Set(float64(n))
	}
}
