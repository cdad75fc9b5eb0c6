package queue

import (
	"context"
)

// Job is a migrate request published for asynchronous execution
type Job struct {
	ID        string                 `json:"id"`
	Target    string                 `json:"target"`
	Direction string                 `json:"direction,omitempty"` // "upgrade", "downgrade" or empty for either
	DryRun    bool                   `json:"dry_run,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// JobResult represents the result of a migrate job
type JobResult struct {
	JobID     string   `json:"job_id"`
	Success   bool     `json:"success"`
	From      string   `json:"from"`
	Tip       string   `json:"tip"`
	Processed []string `json:"processed"`
	Failed    string   `json:"failed,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Producer publishes migrate jobs to the queue
type Producer interface {
	// PublishJob publishes a migrate job to the queue
	PublishJob(ctx context.Context, job *Job) error

	// Close closes the producer connection
	Close() error
}

// Consumer consumes migrate jobs from the queue
type Consumer interface {
	// Consume starts consuming jobs from the queue
	// The handler function is called for each job
	Consume(ctx context.Context, handler JobHandler) error

	// Close closes the consumer connection
	Close() error
}

// JobHandler processes a migrate job
type JobHandler func(ctx context.Context, job *Job) (*JobResult, error)

// Queue provides both producer and consumer capabilities
type Queue interface {
	Producer
	Consumer
}
