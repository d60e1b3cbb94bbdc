package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	metricPrefix = "hestia_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	statementGenerateTotal   *prometheus.CounterVec
	statementGenerateLatency *prometheus.HistogramVec
	statementExportTotal     *prometheus.CounterVec
	billedAmountTotal        prometheus.Counter
	billingJobsTotal         *prometheus.CounterVec
	queueRejectedTotal       prometheus.Counter
)

// Init registers the billing metrics and DB-backed gauges. Safe to call more than once.
func Init(db *sql.DB, logger *logrus.Logger) {
	registerOnce.Do(func() {
		statementGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_generate_total",
				Help: "Total statement generate operations by result",
			},
			[]string{"result"},
		)
		statementGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "statement_generate_latency_seconds",
				Help:    "Statement generate latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		statementExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_export_total",
				Help: "Total rendered documents by format and result",
			},
			[]string{"format", "result"},
		)
		billedAmountTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "billed_amount_total",
				Help: "Sum of amount due over generated statements",
			},
		)
		billingJobsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "billing_jobs_total",
				Help: "Billing run jobs processed by result",
			},
			[]string{"result"},
		)
		queueRejectedTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "billing_queue_rejected_total",
				Help: "Billing runs rejected because the queue was full or closed",
			},
		)

		prometheus.MustRegister(
			statementGenerateTotal,
			statementGenerateLatency,
			statementExportTotal,
			billedAmountTotal,
			billingJobsTotal,
			queueRejectedTotal,
		)
		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

func registerDBMetrics(db *sql.DB, logger *logrus.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "statements_unpaid",
			Help: "Statements with an outstanding balance",
		},
		func() float64 {
			return queryCount(db, logger,
				"SELECT COUNT(*) FROM statements WHERE CAST(amount_due AS REAL) > CAST(amount_paid AS REAL)")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "maintenance_requests_open",
			Help: "Maintenance requests not yet completed or cancelled",
		},
		func() float64 {
			return queryCount(db, logger,
				"SELECT COUNT(*) FROM maintenance_requests WHERE status NOT IN ('Completed', 'Cancelled')")
		},
	))
}

func queryCount(db *sql.DB, logger *logrus.Logger, query string) float64 {
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.WithError(err).Warn("metrics query failed")
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}

// ObserveStatementGenerate records generate latency and result.
func ObserveStatementGenerate(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if statementGenerateTotal != nil {
		statementGenerateTotal.WithLabelValues(result).Inc()
	}
	if statementGenerateLatency != nil {
		statementGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncStatementExport counts a rendered pdf or xlsx document.
func IncStatementExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if statementExportTotal != nil {
		statementExportTotal.WithLabelValues(format, result).Inc()
	}
}

// AddBilled adds a statement's amount due to the billed total.
func AddBilled(amount decimal.Decimal) {
	if amount.IsNegative() {
		return
	}
	if billedAmountTotal != nil {
		billedAmountTotal.Add(amount.InexactFloat64())
	}
}

// IncBillingJob counts a processed billing run job.
func IncBillingJob(result string) {
	if billingJobsTotal != nil {
		billingJobsTotal.WithLabelValues(result).Inc()
	}
}

func IncQueueRejected() {
	if queueRejectedTotal != nil {
		queueRejectedTotal.Inc()
	}
}
