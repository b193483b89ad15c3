package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Expense metrics
	ExpensesCreated prometheus.Counter
	ExpensesUpdated prometheus.Counter
	ExpensesDeleted prometheus.Counter
	ExpenseAmount   prometheus.Histogram
	ExpenseErrors   *prometheus.CounterVec

	// Month metrics
	MonthsSettled      prometheus.Counter
	MonthsRecalculated prometheus.Counter
	BalanceReads       prometheus.Counter
	BalanceCacheHits   prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Outbox metrics
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ExpensesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gastos_expenses_created_total",
			Help: "Total number of expenses created",
		}),
		ExpensesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gastos_expenses_updated_total",
			Help: "Total number of expenses updated",
		}),
		ExpensesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gastos_expenses_deleted_total",
			Help: "Total number of expenses deleted",
		}),
		ExpenseAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gastos_expense_amount",
			Help:    "Expense amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		ExpenseErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gastos_expense_errors_total",
				Help: "Total number of expense operation errors by type",
			},
			[]string{"error_type"},
		),

		MonthsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gastos_months_settled_total",
			Help: "Total number of months settled",
		}),
		MonthsRecalculated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gastos_months_recalculated_total",
			Help: "Total number of month recalculations",
		}),
		BalanceReads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gastos_balance_reads_total",
			Help: "Total number of monthly balance reads",
		}),
		BalanceCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gastos_balance_cache_hits_total",
			Help: "Total number of monthly balance reads served from cache",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gastos_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gastos_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gastos_events_published_total",
			Help: "Total number of outbox events published",
		}),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gastos_event_publish_errors_total",
			Help: "Total number of outbox publish failures",
		}),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gastos_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
