package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/toolsascode/revmig/internal/logger"
	"github.com/toolsascode/revmig/internal/queue"
)

// messageWriter is the part of *kafka.Writer the producer uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer implements queue.Producer using Kafka
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishJob publishes a migrate job to Kafka
func (p *Producer) PublishJob(ctx context.Context, job *queue.Job) error {
	// Generate job ID if not provided
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	jobData, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	// Every job shares one key so that all of them land on one partition and
	// are consumed in publish order
	message := kafka.Message{
		Key:   []byte(jobPartitionKey),
		Value: jobData,
		Headers: []kafka.Header{
			{Key: "job-id", Value: []byte(job.ID)},
			{Key: "target", Value: []byte(job.Target)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	logger.Infof("Published migrate job %s (target %s) to Kafka topic %s", job.ID, job.Target, p.topic)
	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

const jobPartitionKey = "revmig"
