// Package metrics exposes Prometheus counters for shortening and resolution traffic.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "url_popularity"

// Resolution outcomes.
const (
	ResolutionCacheHit = "cache_hit"
	ResolutionFound    = "found"
	ResolutionNotFound = "not_found"
)

// Metrics is safe to use as a nil pointer, in which case every method is a no-op.
type Metrics struct {
	shortenings   *prometheus.CounterVec
	keyCollisions prometheus.Counter
	resolutions   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		shortenings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shortenings_total",
			Help:      "Accepted shortening requests, partitioned by whether they counted as a unique hit.",
		}, []string{"unique_hit"}),
		keyCollisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "short_key_collisions_total",
			Help:      "Generated short keys that were already taken and had to be redrawn.",
		}),
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Short key resolutions, partitioned by outcome.",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveShortening(uniqueHit bool) {
	if m == nil {
		return
	}
	m.shortenings.WithLabelValues(strconv.FormatBool(uniqueHit)).Inc()
}

func (m *Metrics) ObserveKeyCollision() {
	if m == nil {
		return
	}
	m.keyCollisions.Inc()
}

func (m *Metrics) ObserveResolution(result string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(result).Inc()
}
