package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compliment_api",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "compliment_api",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	selections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "compliment_api",
			Subsystem: "selection",
			Name:      "requests_total",
			Help:      "Random selections served, by mode (one, batch) and outcome.",
		},
		[]string{"mode", "outcome"},
	)

	selectionSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "compliment_api",
			Subsystem: "selection",
			Name:      "compliments_returned",
			Help:      "Number of compliments returned per selection.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8), // 1 to 128
		},
	)

	poolSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "compliment_api",
			Subsystem: "selection",
			Name:      "pool_size",
			Help:      "Number of compliments the receiver had when a selection ran.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		selections,
		selectionSize,
		poolSize,
	)
}

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one finished HTTP request. path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func RecordHTTPRequest(method, path string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RecordSelection records one random selection. returned is 0 for failures.
func RecordSelection(mode string, pool, returned int, err error) {
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case returned == 0:
		outcome = "empty"
	}
	selections.WithLabelValues(mode, outcome).Inc()
	if err == nil {
		poolSize.Observe(float64(pool))
		selectionSize.Observe(float64(returned))
	}
}
