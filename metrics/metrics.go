// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus instrumentation for propagation calls.
//
// A Recorder owns its collectors and registers them on a caller-supplied
// Registerer, so several propagators (or tests) never collide on the global
// registry. Every method is safe on a nil *Recorder, which records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Cache outcome label values.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheEvict = "evict"
)

// Recorder holds the propagation collectors.
type Recorder struct {
	propagations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	violations   *prometheus.CounterVec
	cache        *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them on reg.
// Returns the registration error, e.g. when reg already holds them.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		propagations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waveprop_propagations_total",
				Help: "Total number of field propagations.",
			},
			[]string{"method", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "waveprop_propagation_duration_seconds",
				Help:    "Field propagation duration in seconds.",
				Buckets: prometheus.ExponentialBuckets(1e-4, 4, 10),
			},
			[]string{"method"},
		),
		violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waveprop_sampling_violations_total",
				Help: "Total number of failed sampling checks.",
			},
			[]string{"method"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waveprop_kernel_cache_total",
				Help: "Kernel cache lookups and evictions by outcome.",
			},
			[]string{"outcome"},
		),
	}
	for _, c := range []prometheus.Collector{r.propagations, r.duration, r.violations, r.cache} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// ObservePropagation records one propagation of the given method.
func (r *Recorder) ObservePropagation(method string, d time.Duration, err error) {
	if r == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	r.propagations.WithLabelValues(method, result).Inc()
	r.duration.WithLabelValues(method).Observe(d.Seconds())
}

// IncSamplingViolation counts a failed sampling check.
func (r *Recorder) IncSamplingViolation(method string) {
	if r == nil {
		return
	}
	r.violations.WithLabelValues(method).Inc()
}

// IncCache counts a kernel cache event (CacheHit, CacheMiss or CacheEvict).
func (r *Recorder) IncCache(outcome string) {
	if r == nil {
		return
	}
	r.cache.WithLabelValues(outcome).Inc()
}

// Handler returns an HTTP handler serving the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
