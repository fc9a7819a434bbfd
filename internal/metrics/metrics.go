package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh outcomes.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusStale   = "stale"
)

// Cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

type Metrics struct {
	Refreshes       *prometheus.CounterVec
	OptimizerErrors prometheus.Counter
	RequestSeconds  *prometheus.HistogramVec
	RefreshInFlight prometheus.Gauge
	CacheRequests   *prometheus.CounterVec
	DecodeFailures  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Refreshes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_refresh_total",
			Help: "Total number of result set refreshes by outcome.",
		}, []string{"status"}),
		OptimizerErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "waypoint_optimizer_errors_total",
			Help: "Total number of errors received from the optimizer.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "waypoint_optimizer_request_duration_seconds",
			Help:    "Duration of requests to the optimizer.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		RefreshInFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "waypoint_refresh_in_flight",
			Help: "Current number of refreshes waiting on the optimizer.",
		}),
		CacheRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_cache_requests_total",
			Help: "Total number of optimizer cache lookups by result.",
		}, []string{"result"}),
		DecodeFailures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "waypoint_decode_failures_total",
			Help: "Total number of route geometries that could not be decoded.",
		}),
	}
}
