package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakuorm/haku"
	"github.com/hakuorm/haku/logger"
	"github.com/hakuorm/haku/schema"
	"github.com/hakuorm/haku/utils/tests"
)

func TestOperation(t *testing.T) {
	testCases := []struct {
		sql      string
		expected string
	}{
		{"SELECT todos.* FROM todos", "select"},
		{"  INSERT INTO todos SET title = :t", "insert"},
		{"CREATE TABLE IF NOT EXISTS todos (\n  id INT\n)", "create"},
		{"SELECT(1)", "select"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, Operation(tc.sql))
		})
	}
}

func TestInstrument(t *testing.T) {
	ctx := context.Background()
	registry := prometheus.NewRegistry()
	memory := tests.NewConn()

	conn, err := Instrument(memory, registry)
	require.NoError(t, err)

	_, err = Instrument(memory, registry)
	assert.Error(t, err, "metrics register once per registry")

	db, err := haku.Open(conn, haku.WithLogger(logger.Discard))
	require.NoError(t, err)
	require.NoError(t, db.Register(tests.Factories()...))

	memory.Seed("todos", schema.Record{"title": "milk"}, schema.Record{"title": "eggs"})

	todo, err := db.New("Todo")
	require.NoError(t, err)
	_, err = todo.FindMany(ctx, haku.FindOptions{IncludeDeleted: true})
	require.NoError(t, err)

	count, err := todo.Count(ctx, haku.FindOptions{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	boom := errors.New("boom")
	err = db.Transaction(ctx, func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	require.NoError(t, db.Transaction(ctx, func(ctx context.Context) error { return nil }))

	m := conn.Metrics()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.statementsTotal.WithLabelValues("select", statusSuccess)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.rowsTotal.WithLabelValues("select")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transactionsTotal.WithLabelValues("commit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transactionsTotal.WithLabelValues("rollback")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.transactionsInFlight))

	families, err := registry.Gather()
	require.NoError(t, err)
	var histogram *dto.Histogram
	for _, family := range families {
		if family.GetName() == "haku_statement_duration_seconds" {
			histogram = family.GetMetric()[0].GetHistogram()
		}
	}
	require.NotNil(t, histogram)
	assert.Equal(t, uint64(2), histogram.GetSampleCount())
}

func TestRecordStatementError(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	memory := tests.NewConn()
	memory.FailOn = func(string) error { return errors.New("gone away") }
	conn := &Conn{Connection: memory, metrics: m}

	_, err = conn.Execute(context.Background(), "DELETE FROM todos", nil)
	assert.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.statementsTotal.WithLabelValues("delete", statusError)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.rowsTotal.WithLabelValues("delete")))

	assert.Error(t, conn.Commit(context.Background()))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.transactionsInFlight))
}
