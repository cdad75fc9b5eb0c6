package pulsar

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apache/pulsar-client-go/pulsar"

	"github.com/toolsascode/revmig/internal/logger"
	"github.com/toolsascode/revmig/internal/queue"
)

// messageReceiver is the part of pulsar.Consumer the consumer uses
type messageReceiver interface {
	Receive(ctx context.Context) (pulsar.Message, error)
	Ack(msg pulsar.Message) error
	Nack(msg pulsar.Message)
	Close()
}

// Consumer implements queue.Consumer using Pulsar
type Consumer struct {
	consumer messageReceiver
	topic    string
}

// NewConsumer subscribes on client. The subscription is failover: one worker
// at a time receives migrate jobs, in publish order. The client stays owned
// by the caller.
func NewConsumer(client pulsar.Client, topic, subscriptionName string) (*Consumer, error) {
	consumer, err := client.Subscribe(pulsar.ConsumerOptions{
		Topic:            topic,
		SubscriptionName: subscriptionName,
		Type:             pulsar.Failover,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe %s to %s: %w", subscriptionName, topic, err)
	}

	return &Consumer{
		consumer: consumer,
		topic:    topic,
	}, nil
}

// Consume starts consuming jobs from Pulsar. Jobs whose handler returns an
// error without a result (the migration never started, e.g. the lock was
// held) are negatively acknowledged for redelivery; everything else is acked.
func (c *Consumer) Consume(ctx context.Context, handler queue.JobHandler) error {
	logger.Infof("Starting Pulsar consumer for topic %s", c.topic)

	for {
		msg, err := c.consumer.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Pulsar consumer context cancelled")
				return ctx.Err()
			}
			return fmt.Errorf("failed to receive message from Pulsar: %w", err)
		}

		var job queue.Job
		if err := json.Unmarshal(msg.Payload(), &job); err != nil {
			logger.Errorf("Failed to unmarshal job from Pulsar message: %v", err)
			c.ack(msg, "")
			continue
		}

		// Extract job ID from properties if not in body
		if job.ID == "" {
			if jobID, ok := msg.Properties()["job-id"]; ok {
				job.ID = jobID
			} else if msg.Key() != "" {
				job.ID = msg.Key()
			}
		}

		logger.Infof("Processing migrate job %s from Pulsar", job.ID)

		result, err := handler(ctx, &job)
		if err != nil && result == nil {
			logger.Errorf("Failed to process migrate job %s, will retry: %v", job.ID, err)
			c.consumer.Nack(msg)
			continue
		}
		if err != nil {
			logger.Errorf("Migrate job %s failed: %v", job.ID, err)
		}

		c.ack(msg, job.ID)
		logResult(job.ID, result)
	}
}

func (c *Consumer) ack(msg pulsar.Message, jobID string) {
	if err := c.consumer.Ack(msg); err != nil {
		logger.Errorf("Failed to acknowledge message for job %s: %v", jobID, err)
	}
}

func logResult(jobID string, result *queue.JobResult) {
	if result == nil {
		return
	}
	if result.Success {
		logger.Infof("Migrate job %s finished: %d revision(s) processed", jobID, len(result.Processed))
		return
	}
	logger.Warnf("Migrate job %s stopped (failed revision %s): %s", jobID, result.Failed, result.Error)
}

// Close closes the Pulsar consumer
func (c *Consumer) Close() error {
	c.consumer.Close()
	return nil
}
