package core

// Metrics exposes a Prometheus registry for the Resolver, Cache and
// Admission Control components (§4.6, §8). Grounded on the teacher's
// HealthLogger (core/system_health_logging.go), which wires a private
// prometheus.Registry and a handful of Gauge/Counter fields rather than
// using the global DefaultRegisterer — kept here for the same reason: a
// process can run more than one ResolverContext in tests without metric
// name collisions.

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// kindMetrics bundles the local/remote hit-miss counters for one cache kind.
type kindMetrics struct {
	localHits   prometheus.Counter
	localMisses prometheus.Counter
	remoteHits  prometheus.Counter
}

// Metrics is the process-wide metric registry, constructed once and passed
// explicitly into every component that needs it (§9: no module-mutable
// globals).
type Metrics struct {
	registry *prometheus.Registry

	mu    sync.Mutex
	kinds map[string]*kindMetrics

	ServedStale       *prometheus.CounterVec
	UpstreamRequests  *prometheus.CounterVec
	AdmissionRejected *prometheus.CounterVec
	AdmissionInFlight prometheus.Gauge
	RemoteCacheUp     prometheus.Gauge
}

// NewMetrics builds a fresh registry with the counters/gauges described in
// SPEC_FULL.md's "Admission metrics" supplement.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		kinds:    make(map[string]*kindMetrics),
		ServedStale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xenos_served_stale_total",
			Help: "Responses served from a stale cache entry because upstream was unavailable.",
		}, []string{"kind"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xenos_upstream_requests_total",
			Help: "Upstream requests issued, by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		AdmissionRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xenos_admission_rejected_total",
			Help: "Requests rejected by Admission Control, by endpoint and reason.",
		}, []string{"endpoint", "reason"}),
		AdmissionInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xenos_admission_inflight",
			Help: "Upstream requests currently in flight under the concurrency semaphore.",
		}),
		RemoteCacheUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xenos_remote_cache_up",
			Help: "1 if the remote cache tier answered its last probe, 0 otherwise.",
		}),
	}
	reg.MustRegister(m.ServedStale, m.UpstreamRequests, m.AdmissionRejected, m.AdmissionInFlight, m.RemoteCacheUp)
	m.RemoteCacheUp.Set(1)
	return m
}

// forKind returns (creating and registering on first use) the counters for
// kind. Kinds are a small fixed set known at startup, so the map is never
// written to after ResolverContext construction finishes.
func (m *Metrics) forKind(kind string) *kindMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	if km, ok := m.kinds[kind]; ok {
		return km
	}
	km := &kindMetrics{
		localHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "xenos_cache_local_hits_total",
			Help:        "Local-tier cache hits.",
			ConstLabels: prometheus.Labels{"kind": kind},
		}),
		localMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "xenos_cache_local_misses_total",
			Help:        "Local-tier cache misses (including expired entries).",
			ConstLabels: prometheus.Labels{"kind": kind},
		}),
		remoteHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "xenos_cache_remote_hits_total",
			Help:        "Remote-tier cache hits.",
			ConstLabels: prometheus.Labels{"kind": kind},
		}),
	}
	m.registry.MustRegister(km.localHits, km.localMisses, km.remoteHits)
	m.kinds[kind] = km
	return km
}

// Handler returns the Prometheus scrape endpoint handler (§4.6, §6).
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
