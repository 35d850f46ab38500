package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/events"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/metrics"

	"github.com/IBM/sarama"
)

// Producer publishes aluno events to a Kafka topic, keyed by matricula so
// every change to one aluno lands on the same partition.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
	metrics  *metrics.MessagingMetrics
}

// PublishTimeout bounds how long one SendMessage may hold a request.
const PublishTimeout = 2 * time.Second

// NewConfig keeps retries and network waits short: publishing runs inside
// the request path and a failed publish is only logged.
func NewConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true
	config.Producer.Timeout = PublishTimeout
	config.Producer.Retry.Max = 1
	config.Producer.Retry.Backoff = 100 * time.Millisecond
	config.Metadata.Retry.Max = 1
	config.Metadata.Retry.Backoff = 100 * time.Millisecond
	config.Net.DialTimeout = PublishTimeout
	config.Net.ReadTimeout = PublishTimeout
	config.Net.WriteTimeout = PublishTimeout
	return config
}

func NewProducer(brokers []string, topic string, logger *slog.Logger, m *metrics.MessagingMetrics) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	logger.Info("kafka producer initialized", "brokers", brokers, "topic", topic)
	return NewProducerFromSync(producer, topic, logger, m), nil
}

// NewProducerFromSync wraps an existing sarama producer (mocks in tests).
func NewProducerFromSync(producer sarama.SyncProducer, topic string, logger *slog.Logger, m *metrics.MessagingMetrics) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		logger:   logger,
		metrics:  m,
	}
}

func (p *Producer) Publish(ctx context.Context, event events.Event) error {
	valueBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Matricula),
		Value: sarama.ByteEncoder(valueBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
		},
	}

	start := time.Now()
	partition, offset, err := p.producer.SendMessage(msg)
	p.metrics.RecordPublish(ctx, "kafka", p.topic, time.Since(start), err)

	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send event to kafka", "error", err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.InfoContext(ctx, "event sent to kafka",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"type", event.Type,
		"matricula", event.Matricula,
	)
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
