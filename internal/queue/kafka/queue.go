package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/toolsascode/revmig/internal/queue"
)

// Config selects the brokers, the topic migrate jobs travel on and the
// consumer group workers join
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Queue implements queue.Queue using Kafka. Every job is keyed alike, so the
// group sees jobs in publish order on a single partition.
type Queue struct {
	producer *Producer
	consumer *Consumer
	topic    string

	closeOnce sync.Once
	closeErr  error
}

// New creates a Kafka queue. Brokers are dialed lazily on first publish or
// fetch.
func New(cfg Config) *Queue {
	return &Queue{
		producer: NewProducer(cfg.Brokers, cfg.Topic),
		consumer: NewConsumer(cfg.Brokers, cfg.Topic, cfg.GroupID),
		topic:    cfg.Topic,
	}
}

// PublishJob publishes a migrate job to Kafka
func (q *Queue) PublishJob(ctx context.Context, job *queue.Job) error {
	return q.producer.PublishJob(ctx, job)
}

// Consume starts consuming jobs from Kafka
func (q *Queue) Consume(ctx context.Context, handler queue.JobHandler) error {
	return q.consumer.Consume(ctx, handler)
}

// Close closes the writer and the group reader. Later calls are no-ops.
func (q *Queue) Close() error {
	q.closeOnce.Do(func() {
		if err := errors.Join(q.producer.Close(), q.consumer.Close()); err != nil {
			q.closeErr = fmt.Errorf("closing Kafka queue on %s: %w", q.topic, err)
		}
	})
	return q.closeErr
}
