// Package metrics defines the Prometheus collectors exposed by `plank serve`.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all collectors. A nil *Registry is valid and records nothing,
// so callers outside the server never need to check.
type Registry struct {
	reg          *prometheus.Registry
	mutations    *prometheus.CounterVec
	cards        prometheus.Gauge
	malformed    prometheus.Counter
	drags        *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a registry with all collectors registered.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plank",
			Name:      "card_mutations_total",
			Help:      "Card store mutations by operation.",
		}, []string{"op"}),
		cards: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "plank",
			Name:      "cards",
			Help:      "Cards in the collection after the last read or write.",
		}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "plank",
			Name:      "malformed_storage_total",
			Help:      "Reads that found an unparseable collection and treated it as empty.",
		}),
		drags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plank",
			Name:      "drag_gestures_total",
			Help:      "Finished drag gestures by outcome.",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "plank",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
	r.reg.MustRegister(r.mutations, r.cards, r.malformed, r.drags, r.httpDuration)
	return r
}

// Mutation counts one store mutation.
func (r *Registry) Mutation(op string) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(op).Inc()
}

// CardCount records the collection size.
func (r *Registry) CardCount(n int) {
	if r == nil {
		return
	}
	r.cards.Set(float64(n))
}

// MalformedStorage counts a malformed-storage recovery.
func (r *Registry) MalformedStorage() {
	if r == nil {
		return
	}
	r.malformed.Inc()
}

// Drag counts a finished drag gesture ("tap", "drop", "miss", "cancel").
func (r *Registry) Drag(outcome string) {
	if r == nil {
		return
	}
	r.drags.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records one request.
func (r *Registry) ObserveHTTP(method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
