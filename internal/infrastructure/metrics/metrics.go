package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Catalog metrics
	PartsCreated prometheus.Counter
	PartsUpdated prometheus.Counter
	PartsRemoved prometheus.Counter

	// Movement metrics
	Movements        *prometheus.CounterVec
	UnitsMoved       *prometheus.CounterVec
	MovementErrors   *prometheus.CounterVec
	MovementDuration *prometheus.HistogramVec

	// Idempotency metrics
	IdempotentReplays prometheus.Counter

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Reconciliation metrics
	LedgerDiscrepancies prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all Prometheus metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Catalog metrics
		PartsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "partledger_parts_created_total",
			Help: "Total number of spare parts added to the catalog",
		}),
		PartsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "partledger_parts_updated_total",
			Help: "Total number of spare part overwrites",
		}),
		PartsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "partledger_parts_removed_total",
			Help: "Total number of spare parts removed from the catalog",
		}),

		// Movement metrics
		Movements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partledger_movements_total",
				Help: "Total number of committed stock movements",
			},
			[]string{"direction"},
		),
		UnitsMoved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partledger_units_moved_total",
				Help: "Total units received or issued",
			},
			[]string{"direction"},
		),
		MovementErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partledger_movement_errors_total",
				Help: "Total number of rejected or failed stock movements by type",
			},
			[]string{"direction", "error_type"},
		),
		MovementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "partledger_movement_duration_seconds",
				Help:    "Duration of stock movement transactions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"direction"},
		),

		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "partledger_idempotent_replays_total",
			Help: "Total number of responses replayed for a repeated idempotency key",
		}),

		// Authentication metrics
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partledger_auth_attempts_total",
				Help: "Total login attempts",
			},
			[]string{"status"},
		),

		LedgerDiscrepancies: factory.NewGauge(prometheus.GaugeOpts{
			Name: "partledger_ledger_discrepancies",
			Help: "Number of parts whose quantity disagreed with the ledger at the last check",
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "partledger_rate_limit_hits_total",
			Help: "Total rate limited requests",
		}),
	}
}
