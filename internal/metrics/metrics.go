package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	rsvpTogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsvp_toggles_total",
			Help: "RSVP toggle attempts by outcome.",
		},
		[]string{"outcome"},
	)

	moderationDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_decisions_total",
			Help: "Moderation decisions by verdict.",
		},
		[]string{"verdict"},
	)
)

// Init registers the collectors in the default registry. Call it once at
// startup.
func Init() {
	prometheus.MustRegister(
		httpInFlight,
		httpRequestsTotal,
		httpRequestDuration,
		rsvpTogglesTotal,
		moderationDecisionsTotal,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument measures RPS, latency and in-flight count per route. The
// route template is used as the path label so event ids do not explode the
// cardinality.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		httpInFlight.Inc()
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	}
}

func CountToggle(outcome string) {
	rsvpTogglesTotal.WithLabelValues(outcome).Inc()
}

func CountDecision(verdict string) {
	moderationDecisionsTotal.WithLabelValues(verdict).Inc()
}
