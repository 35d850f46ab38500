package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics groups the service counters with the database and messaging collectors.
// Every Record* method is safe to call on a zero value.
type Metrics struct {
	Database  *DatabaseMetrics
	Messaging *MessagingMetrics

	alunosCreated     metric.Int64Counter
	alunosUpdated     metric.Int64Counter
	alunosDeleted     metric.Int64Counter
	alunosViewed      metric.Int64Counter
	alunosListViewed  metric.Int64Counter
	cepLookups        metric.Int64Counter
	cepLookupDuration metric.Float64Histogram
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	if m.Database, err = NewDatabaseMetrics(meter); err != nil {
		return nil, err
	}
	if m.Messaging, err = NewMessagingMetrics(meter); err != nil {
		return nil, err
	}

	m.alunosCreated, err = meter.Int64Counter(
		"aluno_service.alunos.created",
		metric.WithDescription("Total number of alunos registered"),
		metric.WithUnit("{aluno}"),
	)
	if err != nil {
		return nil, err
	}

	m.alunosUpdated, err = meter.Int64Counter(
		"aluno_service.alunos.updated",
		metric.WithDescription("Total number of aluno updates"),
		metric.WithUnit("{aluno}"),
	)
	if err != nil {
		return nil, err
	}

	m.alunosDeleted, err = meter.Int64Counter(
		"aluno_service.alunos.deleted",
		metric.WithDescription("Total number of alunos removed"),
		metric.WithUnit("{aluno}"),
	)
	if err != nil {
		return nil, err
	}

	m.alunosViewed, err = meter.Int64Counter(
		"aluno_service.alunos.viewed",
		metric.WithDescription("Total number of single aluno reads"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.alunosListViewed, err = meter.Int64Counter(
		"aluno_service.alunos.list_viewed",
		metric.WithDescription("Total number of times the aluno list was viewed"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.cepLookups, err = meter.Int64Counter(
		"aluno_service.cep.lookups",
		metric.WithDescription("Total number of CEP lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	// Buckets: 50ms, 100ms, 250ms, 500ms, 1s, 2.5s, 5s, 10s
	m.cepLookupDuration, err = meter.Float64Histogram(
		"aluno_service.cep.lookup_duration",
		metric.WithDescription("Round trip time of the upstream CEP lookup"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func add(ctx context.Context, c metric.Int64Counter) {
	if c != nil {
		c.Add(ctx, 1)
	}
}

func (m *Metrics) RecordAlunoCreated(ctx context.Context) {
	if m != nil {
		add(ctx, m.alunosCreated)
	}
}

func (m *Metrics) RecordAlunoUpdated(ctx context.Context) {
	if m != nil {
		add(ctx, m.alunosUpdated)
	}
}

func (m *Metrics) RecordAlunoDeleted(ctx context.Context) {
	if m != nil {
		add(ctx, m.alunosDeleted)
	}
}

func (m *Metrics) RecordAlunoViewed(ctx context.Context) {
	if m != nil {
		add(ctx, m.alunosViewed)
	}
}

func (m *Metrics) RecordAlunosListViewed(ctx context.Context) {
	if m != nil {
		add(ctx, m.alunosListViewed)
	}
}

// RecordCEPLookup counts a lookup under outcome (ok, invalid, not_found, upstream_error).
func (m *Metrics) RecordCEPLookup(ctx context.Context, outcome string, duration time.Duration) {
	if m == nil || m.cepLookups == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.cepLookups.Add(ctx, 1, attrs)
	if m.cepLookupDuration != nil && duration > 0 {
		m.cepLookupDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

// DB returns the database collector, tolerating a nil receiver.
func (m *Metrics) DB() *DatabaseMetrics {
	if m == nil {
		return nil
	}
	return m.Database
}

// Msg returns the messaging collector, tolerating a nil receiver.
func (m *Metrics) Msg() *MessagingMetrics {
	if m == nil {
		return nil
	}
	return m.Messaging
}

// NewMock creates a no-op Metrics instance for testing
func NewMock() *Metrics {
	return &Metrics{
		Database:  &DatabaseMetrics{},
		Messaging: &MessagingMetrics{},
	}
}
