package pulsar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/google/uuid"

	"github.com/toolsascode/revmig/internal/logger"
	"github.com/toolsascode/revmig/internal/queue"
)

// messageSender is the part of pulsar.Producer the producer uses
type messageSender interface {
	Send(ctx context.Context, msg *pulsar.ProducerMessage) (pulsar.MessageID, error)
	Close()
}

// Producer implements queue.Producer using Pulsar
type Producer struct {
	producer messageSender
	topic    string
}

// NewProducer creates a producer on client. The client stays owned by the
// caller.
func NewProducer(client pulsar.Client, topic string) (*Producer, error) {
	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
		Name:  producerName(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pulsar producer on %s: %w", topic, err)
	}

	return &Producer{
		producer: producer,
		topic:    topic,
	}, nil
}

// PublishJob publishes a migrate job to Pulsar
func (p *Producer) PublishJob(ctx context.Context, job *queue.Job) error {
	// Generate job ID if not provided
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	jobData, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	msg := &pulsar.ProducerMessage{
		Payload: jobData,
		Key:     job.ID,
		Properties: map[string]string{
			"job-id": job.ID,
			"target": job.Target,
		},
	}

	if _, err := p.producer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send message to Pulsar: %w", err)
	}

	logger.Infof("Published migrate job %s (target %s) to Pulsar topic %s", job.ID, job.Target, p.topic)
	return nil
}

// Close closes the Pulsar producer
func (p *Producer) Close() error {
	p.producer.Close()
	return nil
}

// producerName identifies the publishing host in Pulsar topic stats. Pulsar
// picks a unique name when this is empty.
func producerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return ""
	}
	return "revmig-" + host + "-" + uuid.NewString()[:8]
}
