package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Background job metrics
	JobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_job_runs_total",
			Help: "Total number of background job runs by job and status",
		},
		[]string{"job", "status"},
	)

	JobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_job_duration_seconds",
			Help:    "Background job run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	// Notification metrics
	NotificationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_notifications_created_total",
			Help: "Total number of notifications created by type",
		},
		[]string{"type"},
	)

	SubscriptionsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_subscriptions_skipped_total",
			Help: "Total number of subscriptions skipped during matching by reason",
		},
		[]string{"reason"},
	)

	// Search and recommendation metrics
	RecommendationCacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_recommendation_cache_requests_total",
			Help: "Recommendation cache lookups by result (hit or miss)",
		},
		[]string{"result"},
	)

	SearchDroppedFilters = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_search_dropped_filters_total",
			Help: "Search criteria fields ignored because they could not be parsed",
		},
		[]string{"field"},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "status"},
	)
)

func init() {
	prometheus.MustRegister(JobRunsTotal)
	prometheus.MustRegister(JobDuration)
	prometheus.MustRegister(NotificationsCreated)
	prometheus.MustRegister(SubscriptionsSkipped)
	prometheus.MustRegister(RecommendationCacheRequests)
	prometheus.MustRegister(SearchDroppedFilters)
	prometheus.MustRegister(APIRequestsTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures an operation for a histogram observation.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed seconds on the given observer.
func (t *Timer) ObserveDuration(o prometheus.Observer) {
	o.Observe(t.Duration().Seconds())
}
