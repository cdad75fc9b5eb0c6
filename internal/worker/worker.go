package worker

import (
	"context"
	"errors"

	"github.com/toolsascode/revmig/internal/backends"
	"github.com/toolsascode/revmig/internal/executor"
	"github.com/toolsascode/revmig/internal/logger"
	"github.com/toolsascode/revmig/internal/queue"
)

// Runner is the part of the executor a worker drives
type Runner interface {
	ExecuteSync(ctx context.Context, req *executor.Request) (*executor.Report, error)
}

// Worker processes migrate jobs from the queue
type Worker struct {
	runner Runner
	queue  queue.Queue
}

// NewWorker creates a new migrate worker
func NewWorker(runner Runner, q queue.Queue) *Worker {
	return &Worker{
		runner: runner,
		queue:  q,
	}
}

// Start consumes and processes jobs until ctx ends
func (w *Worker) Start(ctx context.Context) error {
	logger.Info("Starting migrate worker...")
	return w.queue.Consume(ctx, w.processJob)
}

// processJob runs one migrate job. A nil result with an error means the job
// never started (e.g. another runner holds the lock) and may be retried.
func (w *Worker) processJob(ctx context.Context, job *queue.Job) (*queue.JobResult, error) {
	logger.Infof("Processing migrate job %s (target %s)", job.ID, job.Target)

	executedBy, _ := job.Metadata["executed_by"].(string)
	if executedBy == "" {
		executedBy = "worker"
	}
	var extra map[string]interface{}
	if raw, ok := job.Metadata["execution_context"].(string); ok && raw != "" {
		extra = map[string]interface{}{"job_id": job.ID, "origin": raw}
	} else {
		extra = map[string]interface{}{"job_id": job.ID}
	}
	ctx = executor.SetExecutionContext(ctx, executedBy, "queue", extra)

	req := &executor.Request{
		Target:    job.Target,
		Direction: executor.Direction(job.Direction),
		DryRun:    job.DryRun,
	}

	report, err := w.runner.ExecuteSync(ctx, req)
	if errors.Is(err, backends.ErrMigrationInProgress) {
		return nil, err
	}

	result := &queue.JobResult{JobID: job.ID}
	if report != nil {
		result.Success = report.Success
		result.From = report.From
		result.Tip = report.Tip
		result.Processed = report.ProcessedIDs()
		if report.Failed != nil {
			result.Failed = report.Failed.Revision
		}
	}
	if err != nil {
		result.Success = false
		result.Error = err.Error()
		return result, err
	}
	return result, nil
}

// Stop stops the worker
func (w *Worker) Stop() error {
	logger.Info("Stopping migrate worker...")
	return w.queue.Close()
}
