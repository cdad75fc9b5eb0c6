package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/toolsascode/revmig/internal/logger"
	"github.com/toolsascode/revmig/internal/queue"
)

// messageReader is the part of *kafka.Reader the consumer uses
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer implements queue.Consumer using Kafka
type Consumer struct {
	reader messageReader
	topic  string
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	return &Consumer{
		reader: reader,
		topic:  topic,
	}
}

// Consume starts consuming jobs from Kafka. A message is committed once the
// handler returned, whether the migration succeeded or not; failed migrations
// are reported through the job result rather than redelivered.
func (c *Consumer) Consume(ctx context.Context, handler queue.JobHandler) error {
	logger.Infof("Starting Kafka consumer for topic %s", c.topic)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				logger.Info("Kafka consumer context cancelled")
				return ctx.Err()
			}
			return fmt.Errorf("failed to read message from Kafka: %w", err)
		}

		var job queue.Job
		if err := json.Unmarshal(msg.Value, &job); err != nil {
			logger.Errorf("Failed to unmarshal job from Kafka message at offset %d: %v", msg.Offset, err)
			c.commit(ctx, msg)
			continue
		}

		// Extract job ID from headers if not in body
		if job.ID == "" {
			for _, header := range msg.Headers {
				if header.Key == "job-id" {
					job.ID = string(header.Value)
					break
				}
			}
		}

		logger.Infof("Processing migrate job %s from Kafka", job.ID)

		result, err := handler(ctx, &job)
		if err != nil {
			logger.Errorf("Failed to process migrate job %s: %v", job.ID, err)
		}
		logResult(job.ID, result)
		c.commit(ctx, msg)
	}
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		logger.Errorf("Failed to commit Kafka offset %d: %v", msg.Offset, err)
	}
}

func logResult(jobID string, result *queue.JobResult) {
	if result == nil {
		return
	}
	if result.Success {
		logger.Infof("Migrate job %s finished at %s: %d revision(s) processed", jobID, displayTip(result.Tip), len(result.Processed))
		return
	}
	logger.Warnf("Migrate job %s stopped at %s (failed revision %s): %s", jobID, displayTip(result.Tip), result.Failed, result.Error)
}

func displayTip(tip string) string {
	if tip == "" {
		return "base"
	}
	return tip
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
