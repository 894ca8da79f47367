package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_history"

// Metrics holds the Prometheus counters, histograms, and gauges for a session.
type Metrics struct {
	RowsRead      prometheus.Counter
	RowsSkipped   prometheus.Counter
	RecordsLoaded prometheus.Counter
	StoreRecords  prometheus.Gauge

	Queries          *prometheus.CounterVec // labels: query={range,wettest_month,averages}
	RecordsDeleted   prometheus.Counter
	RecordsCorrected prometheus.Counter
	MutationFailures *prometheus.CounterVec // labels: op={delete,correct}, reason={invalid_date,invalid_measurement,not_found}
	Exports          *prometheus.CounterVec // labels: kind={records,averages,xlsx}, outcome={success,error}

	// Kafka publishing metrics.
	RecordsPublished     prometheus.Counter
	PublishErrors        prometheus.Counter
	PublishBatchDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Total rows read from observation files.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Total malformed rows dropped while loading.",
		}),
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Total valid records loaded into the store.",
		}),
		StoreRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_records",
			Help:      "Number of records currently held in the store.",
		}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Queries answered by kind.",
		}, []string{"query"}),
		RecordsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_deleted_total",
			Help:      "Total records removed by delete requests.",
		}),
		RecordsCorrected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_corrected_total",
			Help:      "Total records rewritten by correct requests.",
		}),
		MutationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutation_failures_total",
			Help:      "Rejected delete and correct requests by reason.",
		}, []string{"op", "reason"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Exports by kind and outcome.",
		}, []string{"kind", "outcome"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      "Total records written to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total failed Kafka batch writes.",
		}),
		PublishBatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_batch_duration_seconds",
			Help:      "Duration of a Kafka batch write including retries.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RowsRead,
		m.RowsSkipped,
		m.RecordsLoaded,
		m.StoreRecords,
		m.Queries,
		m.RecordsDeleted,
		m.RecordsCorrected,
		m.MutationFailures,
		m.Exports,
		m.RecordsPublished,
		m.PublishErrors,
		m.PublishBatchDuration,
	}
}
