package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/events"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/metrics"

	"github.com/nats-io/nats.go"
)

// Producer publishes aluno events to a NATS subject.
type Producer struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
	metrics *metrics.MessagingMetrics
}

func NewProducer(url string, subject string, logger *slog.Logger, m *metrics.MessagingMetrics) (*Producer, error) {
	nc, err := nats.Connect(url, nats.Name("aluno-service"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("NATS producer initialized", "url", url, "subject", subject)

	return &Producer{
		conn:    nc,
		subject: subject,
		logger:  logger,
		metrics: m,
	}, nil
}

func (p *Producer) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Header.Set("Event-Type", string(event.Type))
	msg.Data = data

	start := time.Now()
	err = p.conn.PublishMsg(msg)
	p.metrics.RecordPublish(ctx, "nats", p.subject, time.Since(start), err)

	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send event to NATS", "error", err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.InfoContext(ctx, "event sent to NATS", "subject", p.subject, "type", event.Type, "matricula", event.Matricula)
	return nil
}

func (p *Producer) Close() error {
	return p.conn.Drain()
}
