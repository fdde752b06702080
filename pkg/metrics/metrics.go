package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "imgpipe"

type Metrics struct {
	requests        *prometheus.CounterVec
	cacheResults    *prometheus.CounterVec
	sharedRenders   prometheus.Counter
	serveDuration   *prometheus.HistogramVec
	invalidatedKeys prometheus.Counter
}

// New creates the collectors and registers them in registerer.
func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Image requests by response status code.",
		}, []string{"code"}),
		cacheResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_results_total",
			Help:      "Served images by cache result.",
		}, []string{"result"}),
		sharedRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shared_renders_total",
			Help:      "Requests served with an image rendered for a concurrent request.",
		}),
		serveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "serve_duration_seconds",
			Help:      "Time spent serving an image.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"result"}),
		invalidatedKeys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalidated_images_total",
			Help:      "Cached images removed by invalidations.",
		}),
	}

	registerer.MustRegister(m.requests, m.cacheResults, m.sharedRenders, m.serveDuration, m.invalidatedKeys)
	return m
}

func (m *Metrics) ObserveServed(fromCache, shared bool, elapsed time.Duration) {
	result := cacheResult(fromCache)

	m.cacheResults.WithLabelValues(result).Inc()
	m.serveDuration.WithLabelValues(result).Observe(elapsed.Seconds())
	if shared {
		m.sharedRenders.Inc()
	}
}

func (m *Metrics) ObserveStatus(code int) {
	m.requests.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (m *Metrics) ObserveInvalidated(images int) {
	m.invalidatedKeys.Add(float64(images))
}

func cacheResult(fromCache bool) string {
	if fromCache {
		return "hit"
	}

	return "miss"
}
