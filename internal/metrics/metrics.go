package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stoneadvisor_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stoneadvisor_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stoneadvisor_http_requests_in_flight",
			Help: "HTTP requests currently being served. Chat turns hold one for the whole advisor call.",
		},
	)

	TurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stoneadvisor_turns_total",
			Help: "Total number of chat turns by response kind.",
		},
		[]string{"kind"},
	)

	AdvisorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stoneadvisor_advisor_requests_total",
			Help: "Advisory attempts by outcome.",
		},
		[]string{"result"},
	)

	AdvisorDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stoneadvisor_advisor_duration_seconds",
			Help:    "Latency of the advisory LLM call in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
		},
	)

	Candidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stoneadvisor_candidates",
			Help:    "Number of catalog entries surviving the filter pipeline per turn.",
			Buckets: []float64{0, 1, 3, 5, 10, 25, 50, 100},
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPInFlight,
		TurnsTotal,
		AdvisorRequestsTotal,
		AdvisorDuration,
		Candidates,
	)
}
