package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/toolsascode/revmig/internal/backends"
	"github.com/toolsascode/revmig/internal/executor"
	"github.com/toolsascode/revmig/internal/queue"
)

type fakeRunner struct {
	requests []*executor.Request
	by       []string
	report   *executor.Report
	err      error
}

func (r *fakeRunner) ExecuteSync(ctx context.Context, req *executor.Request) (*executor.Report, error) {
	r.requests = append(r.requests, req)
	executedBy, _, _ := executor.GetExecutionContext(ctx)
	r.by = append(r.by, executedBy)
	return r.report, r.err
}

// replayQueue hands its jobs to the handler once, then returns
type replayQueue struct {
	jobs    []*queue.Job
	results []*queue.JobResult
	errs    []error
	closed  bool
}

func (q *replayQueue) PublishJob(ctx context.Context, job *queue.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *replayQueue) Consume(ctx context.Context, handler queue.JobHandler) error {
	for _, job := range q.jobs {
		res, err := handler(ctx, job)
		q.results = append(q.results, res)
		q.errs = append(q.errs, err)
	}
	return nil
}

func (q *replayQueue) Close() error {
	q.closed = true
	return nil
}

func TestWorker_ProcessesJobs(t *testing.T) {
	runner := &fakeRunner{report: &executor.Report{
		Success:   true,
		From:      "a1",
		Tip:       "c3",
		Processed: []executor.Step{{Revision: "b2"}, {Revision: "c3"}},
	}}
	q := &replayQueue{jobs: []*queue.Job{{
		ID:        "job-1",
		Target:    "head",
		Direction: "upgrade",
		Metadata:  map[string]interface{}{"executed_by": "alice"},
	}}}

	w := NewWorker(runner, q)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if len(runner.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(runner.requests))
	}
	req := runner.requests[0]
	if req.Target != "head" || req.Direction != executor.DirectionUpgrade {
		t.Errorf("request = %+v", req)
	}
	if runner.by[0] != "alice" {
		t.Errorf("executed_by = %q, want alice", runner.by[0])
	}

	res := q.results[0]
	if q.errs[0] != nil || !res.Success || res.Tip != "c3" || res.From != "a1" {
		t.Errorf("result = %+v, err = %v", res, q.errs[0])
	}
	if len(res.Processed) != 2 || res.Processed[1] != "c3" {
		t.Errorf("processed = %v", res.Processed)
	}
}

func TestWorker_FailedMigration(t *testing.T) {
	runner := &fakeRunner{
		report: &executor.Report{Tip: "a1", Processed: []executor.Step{{Revision: "a1"}}, Failed: &executor.Step{Revision: "b2"}},
		err:    &executor.ActionExecutionError{Revision: "b2", Err: errors.New("syntax error")},
	}
	q := &replayQueue{jobs: []*queue.Job{{ID: "job-2", Target: "head"}}}

	if err := NewWorker(runner, q).Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	res := q.results[0]
	if res == nil || res.Success || res.Failed != "b2" || res.Tip != "a1" || res.Error == "" {
		t.Errorf("result = %+v", res)
	}
	if runner.by[0] != "worker" {
		t.Errorf("executed_by = %q, want worker", runner.by[0])
	}
}

func TestWorker_LockHeldIsRetryable(t *testing.T) {
	runner := &fakeRunner{report: &executor.Report{}, err: backends.ErrMigrationInProgress}
	q := &replayQueue{jobs: []*queue.Job{{ID: "job-3", Target: "head"}}}

	if err := NewWorker(runner, q).Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if q.results[0] != nil {
		t.Errorf("expected nil result for a job that never started, got %+v", q.results[0])
	}
	if !errors.Is(q.errs[0], backends.ErrMigrationInProgress) {
		t.Errorf("err = %v", q.errs[0])
	}
}

func TestWorker_Stop(t *testing.T) {
	q := &replayQueue{}
	if err := NewWorker(&fakeRunner{}, q).Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if !q.closed {
		t.Error("queue not closed")
	}
}
