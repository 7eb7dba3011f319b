package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveQuery(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveQuery(SourceBuilder, 20*time.Millisecond, 5, nil)
	m.ObserveQuery(SourceBuilder, 10*time.Millisecond, 0, errors.New("boom"))
	m.ObserveQuery(SourceExplorer, time.Millisecond, 1, nil)

	assert.InDelta(t, 1, testutil.ToFloat64(m.QueriesTotal.WithLabelValues(SourceBuilder, "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.QueriesTotal.WithLabelValues(SourceBuilder, "error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.QueriesTotal.WithLabelValues(SourceExplorer, "ok")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.QueryDuration))
}

func TestObserveSchemaLookup(t *testing.T) {
	m := New(nil)
	m.ObserveSchemaLookup("tables", true)
	m.ObserveSchemaLookup("tables", false)
	m.ObserveSchemaLookup("tables", false)

	assert.InDelta(t, 2, testutil.ToFloat64(m.SchemaLookups.WithLabelValues("tables", "miss")), 0)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveQuery(SourceCLI, time.Second, 1, nil)
	m.ObserveSchemaLookup("columns", true)
}
