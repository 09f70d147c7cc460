package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Buy and rent requests created.
	RequestsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_requests_created_total",
			Help: "Buy and rent requests created",
		},
		[]string{"kind"}, // transaction|rental
	)
	RequestsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_requests_resolved_total",
			Help: "Requests accepted or declined by the seller",
		},
		[]string{"kind", "action"},
	)
	// Accept units of work that rolled back.
	RequestsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_requests_failed_total",
			Help: "Request workflow operations that failed with an unexpected error",
		},
		[]string{"op"},
	)
	// Items bought through cart checkout.
	CheckoutItems = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campus_checkout_items_total",
			Help: "Items sold through cart checkout",
		},
	)
	NotificationsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_notifications_published_total",
			Help: "Notification events pushed to the realtime channel",
		},
		[]string{"result"}, // ok|error
	)

	// HTTP layer, labelled by chi route pattern.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campus_http_request_duration_seconds",
			Help:    "Latency of API requests by route and status",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route", "status"},
	)
	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "campus_http_requests_in_flight",
			Help: "API requests currently being served",
		},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestsCreated,
			RequestsResolved,
			RequestsFailed,
			CheckoutItems,
			NotificationsPublished,
			HTTPDuration,
			HTTPInFlight,
			WorkerQueueDepth,
		)
	})
}
