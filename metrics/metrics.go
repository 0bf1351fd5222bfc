// Package metrics provides Prometheus instrumentation of haku connections
package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hakuorm/haku"
	"github.com/hakuorm/haku/schema"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics Prometheus metrics of statements and transactions
type Metrics struct {
	statementsTotal          *prometheus.CounterVec
	statementDurationSeconds *prometheus.HistogramVec
	rowsTotal                *prometheus.CounterVec
	transactionsTotal        *prometheus.CounterVec
	transactionsInFlight     prometheus.Gauge
}

// NewMetrics creates and registers new connection metrics
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{}
	m.initMetrics()
	if err := registerer.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.statementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haku_statements_total",
			Help: "Total number of statements run",
		},
		[]string{"operation", "status"}, // status: success, error
	)

	m.statementDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "haku_statement_duration_seconds",
			Help:    "Time taken to run statements",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		},
		[]string{"operation"},
	)

	m.rowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haku_rows_total",
			Help: "Total number of rows read or affected",
		},
		[]string{"operation"},
	)

	m.transactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haku_transactions_total",
			Help: "Total number of finished transactions",
		},
		[]string{"outcome"}, // outcome: commit, rollback
	)

	m.transactionsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "haku_transactions_in_flight",
		Help: "Number of open transactions",
	})
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.statementsTotal.Describe(ch)
	m.statementDurationSeconds.Describe(ch)
	m.rowsTotal.Describe(ch)
	m.transactionsTotal.Describe(ch)
	m.transactionsInFlight.Describe(ch)
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.statementsTotal.Collect(ch)
	m.statementDurationSeconds.Collect(ch)
	m.rowsTotal.Collect(ch)
	m.transactionsTotal.Collect(ch)
	m.transactionsInFlight.Collect(ch)
}

// RecordStatement records one statement run
func (m *Metrics) RecordStatement(operation string, duration time.Duration, rows int64, err error) {
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	m.statementsTotal.WithLabelValues(operation, status).Inc()
	m.statementDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
	if rows > 0 {
		m.rowsTotal.WithLabelValues(operation).Add(float64(rows))
	}
}

// Operation leading keyword of a statement, lower cased
func Operation(sql string) string {
	sql = strings.TrimSpace(sql)
	if i := strings.IndexAny(sql, " \n\t("); i > 0 {
		sql = sql[:i]
	}
	return strings.ToLower(sql)
}

// Conn connection recording every call into Metrics
type Conn struct {
	haku.Connection
	metrics *Metrics
}

var _ haku.Connection = (*Conn)(nil)

// Instrument wrap conn with metrics registered on registerer
func Instrument(conn haku.Connection, registerer prometheus.Registerer) (*Conn, error) {
	m, err := NewMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Conn{Connection: conn, metrics: m}, nil
}

// Metrics metrics of the connection
func (c *Conn) Metrics() *Metrics {
	return c.metrics
}

func (c *Conn) Execute(ctx context.Context, sql string, params map[string]any) (int64, error) {
	begin := time.Now()
	rows, err := c.Connection.Execute(ctx, sql, params)
	c.metrics.RecordStatement(Operation(sql), time.Since(begin), rows, err)
	return rows, err
}

func (c *Conn) Fetch(ctx context.Context, sql string, params map[string]any) (schema.Record, error) {
	begin := time.Now()
	record, err := c.Connection.Fetch(ctx, sql, params)
	var rows int64
	if record != nil {
		rows = 1
	}
	c.metrics.RecordStatement(Operation(sql), time.Since(begin), rows, err)
	return record, err
}

func (c *Conn) FetchAll(ctx context.Context, sql string, params map[string]any) ([]schema.Record, error) {
	begin := time.Now()
	records, err := c.Connection.FetchAll(ctx, sql, params)
	c.metrics.RecordStatement(Operation(sql), time.Since(begin), int64(len(records)), err)
	return records, err
}

func (c *Conn) FetchColumn(ctx context.Context, sql string, params map[string]any) (any, error) {
	begin := time.Now()
	value, err := c.Connection.FetchColumn(ctx, sql, params)
	c.metrics.RecordStatement(Operation(sql), time.Since(begin), 0, err)
	return value, err
}

func (c *Conn) BeginTransaction(ctx context.Context) error {
	if err := c.Connection.BeginTransaction(ctx); err != nil {
		return err
	}
	c.metrics.transactionsInFlight.Inc()
	return nil
}

func (c *Conn) Commit(ctx context.Context) error {
	open := c.Connection.InTransaction()
	err := c.Connection.Commit(ctx)
	c.finish(open, "commit")
	return err
}

func (c *Conn) RollBack(ctx context.Context) error {
	open := c.Connection.InTransaction()
	err := c.Connection.RollBack(ctx)
	c.finish(open, "rollback")
	return err
}

func (c *Conn) finish(open bool, outcome string) {
	if open && !c.Connection.InTransaction() {
		c.metrics.transactionsInFlight.Dec()
		c.metrics.transactionsTotal.WithLabelValues(outcome).Inc()
	}
}
