package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fibu",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fibu",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// TasksImported counts tasks actually inserted by bulk imports,
	// labeled by source format.
	TasksImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fibu",
			Name:      "tasks_imported_total",
			Help:      "Tasks inserted by bulk import, by source format",
		},
		[]string{"format"},
	)

	ExamsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fibu",
			Name:      "exams_recorded_total",
			Help:      "Completed practice exams recorded",
		},
	)

	BadgesAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fibu",
			Name:      "badges_awarded_total",
			Help:      "Badges awarded by the exam engine",
		},
	)
)

func Init() {
	prometheus.MustRegister(
		RequestCounter,
		RequestDuration,
		TasksImported,
		ExamsRecorded,
		BadgesAwarded,
	)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
