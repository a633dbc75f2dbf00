package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examprep_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "examprep_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	EntitlementVerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examprep_entitlement_verdicts_total",
			Help: "Entitlement decisions by item type and outcome",
		},
		[]string{"item_type", "outcome"},
	)

	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examprep_purchases_total",
			Help: "Checkout attempts by result",
		},
		[]string{"status"},
	)

	PurchasesExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "examprep_purchases_expired_total",
			Help: "Purchases flipped from ACTIVE to EXPIRED by reconciliation",
		},
	)

	CatalogCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examprep_catalog_cache_total",
			Help: "Catalog item cache lookups by result",
		},
		[]string{"result"},
	)

	EmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examprep_emails_total",
			Help: "Emails processed by type and status",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "examprep_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordVerdict(itemType, outcome string) {
	EntitlementVerdictsTotal.WithLabelValues(itemType, outcome).Inc()
}

func RecordPurchase(status string) {
	PurchasesTotal.WithLabelValues(status).Inc()
}

func RecordExpired(n int) {
	PurchasesExpiredTotal.Add(float64(n))
}

func RecordCacheLookup(result string) {
	CatalogCacheTotal.WithLabelValues(result).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsTotal.WithLabelValues(emailType, status).Inc()
}

func SetEmailQueueLength(n int64) {
	EmailQueueLength.Set(float64(n))
}
