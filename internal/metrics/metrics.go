package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared by the engine counters.
const (
	OutcomeApplied  = "applied"
	OutcomeQueued   = "queued"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_ledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_ledger_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_ledger_operations_total",
			Help: "Client operations by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	ConfirmationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_ledger_confirmations_total",
			Help: "Confirm request finalizations by operation type and outcome",
		},
		[]string{"type", "outcome"},
	)

	AdjustmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_ledger_adjustments_total",
			Help: "Administrative balance adjustments by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	CommissionCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_ledger_commission_collected",
			Help: "Commission charged on applied operations, in currency units",
		},
		[]string{"currency"},
	)

	IdempotencyPurgedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_ledger_idempotency_purged_total",
			Help: "Expired idempotency records removed",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordOperation(opType, outcome string) {
	OperationsTotal.WithLabelValues(opType, outcome).Inc()
}

func RecordConfirmation(opType, outcome string) {
	ConfirmationsTotal.WithLabelValues(opType, outcome).Inc()
}

func RecordAdjustment(kind, outcome string) {
	AdjustmentsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordCommission ignores non-positive amounts; counters cannot decrease.
func RecordCommission(currency string, amount float64) {
	if amount <= 0 {
		return
	}
	CommissionCollected.WithLabelValues(currency).Add(amount)
}

func RecordIdempotencyPurge(n int64) {
	if n <= 0 {
		return
	}
	IdempotencyPurgedTotal.Add(float64(n))
}
