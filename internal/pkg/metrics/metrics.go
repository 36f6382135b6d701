// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huddle_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "huddle_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	SchedulesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huddle_schedules_scored_total",
			Help: "Total number of schedules scored by source",
		},
		[]string{"source"},
	)

	ScheduleFinalScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "huddle_schedule_final_score",
			Help:    "Distribution of computed schedule final scores",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huddle_cache_lookups_total",
			Help: "Total number of schedule cache lookups by result",
		},
		[]string{"result"},
	)

	LiveSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "huddle_live_event_subscribers",
			Help: "Number of connected live event feed clients",
		},
	)
)

// Score sources.
const (
	SourceInline  = "inline"
	SourceCompose = "compose"
	SourceUpload  = "upload"
)

// Cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveScore records a computed schedule score.
func ObserveScore(source string, finalScore float64) {
	SchedulesScored.WithLabelValues(source).Inc()
	ScheduleFinalScore.Observe(finalScore)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
