package pulsar

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/apache/pulsar-client-go/pulsar"

	"github.com/toolsascode/revmig/internal/queue"
)

// Config selects the topic migrate jobs travel on and the subscription
// workers share
type Config struct {
	URL          string
	Topic        string
	Subscription string
}

// Queue implements queue.Queue using Pulsar. Producer and consumer share one
// client connection, which the queue closes last.
type Queue struct {
	client   closer
	producer *Producer
	consumer *Consumer
	topic    string

	closeOnce sync.Once
	closeErr  error
}

// closer is the part of pulsar.Client the queue releases on Close
type closer interface {
	Close()
}

// New connects to Pulsar and opens the producer and the subscription for cfg
func New(cfg Config) (*Queue, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: cfg.URL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pulsar client for %s: %w", cfg.URL, err)
	}

	producer, err := NewProducer(client, cfg.Topic)
	if err != nil {
		client.Close()
		return nil, err
	}

	consumer, err := NewConsumer(client, cfg.Topic, cfg.Subscription)
	if err != nil {
		_ = producer.Close()
		client.Close()
		return nil, err
	}

	return &Queue{
		client:   client,
		producer: producer,
		consumer: consumer,
		topic:    cfg.Topic,
	}, nil
}

// PublishJob publishes a migrate job to Pulsar
func (q *Queue) PublishJob(ctx context.Context, job *queue.Job) error {
	return q.producer.PublishJob(ctx, job)
}

// Consume starts consuming jobs from Pulsar
func (q *Queue) Consume(ctx context.Context, handler queue.JobHandler) error {
	return q.consumer.Consume(ctx, handler)
}

// Close closes the producer and the subscription, then the client. Later
// calls are no-ops.
func (q *Queue) Close() error {
	q.closeOnce.Do(func() {
		err := errors.Join(q.producer.Close(), q.consumer.Close())
		if q.client != nil {
			q.client.Close()
		}
		if err != nil {
			q.closeErr = fmt.Errorf("closing Pulsar queue on %s: %w", q.topic, err)
		}
	})
	return q.closeErr
}
