// Package metrics defines leapquery's Prometheus instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query sources.
const (
	SourceBuilder  = "builder"
	SourceExplorer = "explorer"
	SourceCLI      = "cli"
)

// Metrics holds the collectors for query execution.
type Metrics struct {
	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	RowsReturned  *prometheus.HistogramVec
	SchemaLookups *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg creates a private
// registry, which keeps repeated construction in tests from panicking.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leapquery_queries_total",
				Help: "Total number of executed queries",
			},
			[]string{"source", "status"}, // status: "ok", "error"
		),
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leapquery_query_duration_seconds",
				Help:    "Duration of executed queries in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		RowsReturned: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leapquery_query_rows",
				Help:    "Number of rows returned per successful query",
				Buckets: prometheus.ExponentialBuckets(1, 10, 6), // 1 .. 100k
			},
			[]string{"source"},
		),
		SchemaLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leapquery_schema_lookups_total",
				Help: "Schema lookups by cache result",
			},
			[]string{"kind", "result"}, // kind: "tables", "columns"; result: "hit", "miss"
		),
	}
}

// ObserveQuery records one query execution.
func (m *Metrics) ObserveQuery(source string, d time.Duration, rows int, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.QueriesTotal.WithLabelValues(source, status).Inc()
	m.QueryDuration.WithLabelValues(source).Observe(d.Seconds())
	if err == nil {
		m.RowsReturned.WithLabelValues(source).Observe(float64(rows))
	}
}

// ObserveSchemaLookup records a schema cache hit or miss.
func (m *Metrics) ObserveSchemaLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SchemaLookups.WithLabelValues(kind, result).Inc()
}
