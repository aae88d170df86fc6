// Package telemetry exposes prometheus metrics for the synchronization
// engine and the disclosure gateway.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements usecase.Metrics on top of a private prometheus
// registry, so tests can create recorders freely without collisions.
type Recorder struct {
	registry *prometheus.Registry

	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	scopeSwitches *prometheus.CounterVec
	disclosures   *prometheus.CounterVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "console_cache_hits_total",
			Help: "Cache reads that returned a value.",
		}, []string{"resource"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "console_cache_misses_total",
			Help: "Cache reads with no value yet.",
		}, []string{"resource"}),
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "console_fetches_total",
			Help: "Upstream fetches dispatched by the sync engine, by trigger.",
		}, []string{"resource", "reason"}),
		fetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "console_fetch_failures_total",
			Help: "Upstream fetches that failed.",
		}, []string{"resource"}),
		scopeSwitches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "console_scope_switches_total",
			Help: "Active scope transitions, by target kind.",
		}, []string{"kind"}),
		disclosures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "console_disclosure_resolutions_total",
			Help: "Public product resolutions, by outcome.",
		}, []string{"outcome"}),
	}
}

func (r *Recorder) CacheHit(resource string)  { r.cacheHits.WithLabelValues(resource).Inc() }
func (r *Recorder) CacheMiss(resource string) { r.cacheMisses.WithLabelValues(resource).Inc() }

func (r *Recorder) FetchDispatched(resource, reason string) {
	r.fetches.WithLabelValues(resource, reason).Inc()
}

func (r *Recorder) FetchFailed(resource string)       { r.fetchFailures.WithLabelValues(resource).Inc() }
func (r *Recorder) ScopeSwitched(kind string)         { r.scopeSwitches.WithLabelValues(kind).Inc() }
func (r *Recorder) DisclosureResolved(outcome string) { r.disclosures.WithLabelValues(outcome).Inc() }

// Handler serves the recorder's registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
