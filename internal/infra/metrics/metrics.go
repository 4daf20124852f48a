package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring ingestion and dispatch
var (
	NovedadesIngestedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "novedades_ingested_total",
			Help: "Total number of novedades persisted via ingestion",
		},
	)

	NovedadesDuplicateTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "novedades_duplicate_total",
			Help: "Total number of ingestion attempts swallowed as duplicate consecutives",
		},
	)

	NotificationsSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications handed to the mailer collaborator",
		},
	)

	NotificationsFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Total number of notification sends that failed",
		},
	)

	DispatchRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_run_duration_seconds",
			Help:    "Duration of one pending-novedad dispatch run",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(NovedadesIngestedTotal)
	prometheus.MustRegister(NovedadesDuplicateTotal)
	prometheus.MustRegister(NotificationsSentTotal)
	prometheus.MustRegister(NotificationsFailedTotal)
	prometheus.MustRegister(DispatchRunDuration)
}
