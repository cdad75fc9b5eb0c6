package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/toolsascode/revmig/internal/backends"
	"github.com/toolsascode/revmig/internal/logger"
	"github.com/toolsascode/revmig/internal/queue"
	"github.com/toolsascode/revmig/internal/registry"
	"github.com/toolsascode/revmig/internal/revision"
	"github.com/toolsascode/revmig/internal/state"
)

// DefaultLockKey identifies the migration lock when Options.LockKey is empty
const DefaultLockKey = "revmig"

// Context keys for execution metadata
type contextKey string

const (
	executedByKey       contextKey = "executed_by"
	executionMethodKey  contextKey = "execution_method"
	executionContextKey contextKey = "execution_context"
)

// SetExecutionContext sets execution context in the context
func SetExecutionContext(ctx context.Context, executedBy, executionMethod string, executionContext map[string]interface{}) context.Context {
	ctx = context.WithValue(ctx, executedByKey, executedBy)
	ctx = context.WithValue(ctx, executionMethodKey, executionMethod)
	if executionContext != nil {
		ctxBytes, _ := json.Marshal(executionContext)
		ctx = context.WithValue(ctx, executionContextKey, string(ctxBytes))
	}
	return ctx
}

// GetExecutionContext extracts execution context from context
func GetExecutionContext(ctx context.Context) (executedBy, executionMethod, executionContext string) {
	executedBy = "system"
	executionMethod = "api"
	executionContext = ""

	if val := ctx.Value(executedByKey); val != nil {
		if s, ok := val.(string); ok {
			executedBy = s
		}
	}
	if val := ctx.Value(executionMethodKey); val != nil {
		if s, ok := val.(string); ok {
			executionMethod = s
		}
	}
	if val := ctx.Value(executionContextKey); val != nil {
		if s, ok := val.(string); ok {
			executionContext = s
		}
	}
	return executedBy, executionMethod, executionContext
}

// Options tune a migrate call
type Options struct {
	// Timeout bounds a whole migrate call; zero means no limit
	Timeout time.Duration
	// FailFast returns backends.ErrMigrationInProgress instead of waiting for the lock
	FailFast bool
	// LockKey names the migration lock; defaults to DefaultLockKey
	LockKey string
}

// Request is one migrate call
type Request struct {
	Target string
	// Direction restricts the move; empty allows either direction
	Direction Direction
	DryRun    bool
}

// Executor applies and reverts revisions against one backend. It owns every
// mutation of the history store.
type Executor struct {
	registry    registry.Registry
	store       state.HistoryStore
	backend     backends.Backend
	queue       queue.Queue // Optional queue for async execution
	opts        Options
	initialized bool
	now         func() time.Time
	mu          sync.Mutex
}

// NewExecutor creates a new executor over an already connected backend
func NewExecutor(reg registry.Registry, store state.HistoryStore, backend backends.Backend, opts Options) *Executor {
	if opts.LockKey == "" {
		opts.LockKey = DefaultLockKey
	}
	return &Executor{
		registry: reg,
		store:    store,
		backend:  backend,
		opts:     opts,
		now:      time.Now,
	}
}

// SetQueue sets the queue for async execution
func (e *Executor) SetQueue(q queue.Queue) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = q
}

// SetRegistry swaps the revision source, e.g. after revision files changed on disk
func (e *Executor) SetRegistry(reg registry.Registry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registry = reg
}

// GetRegistry returns the revision registry
func (e *Executor) GetRegistry() registry.Registry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry
}

// Chain validates and returns the current revision chain
func (e *Executor) Chain() (*registry.Chain, error) {
	return e.GetRegistry().Chain()
}

// Migrate moves the database to target in whichever direction is needed
func (e *Executor) Migrate(ctx context.Context, target string) (*Report, error) {
	return e.ExecuteSync(ctx, &Request{Target: target})
}

// Upgrade moves forward to target; a target behind the current tip is an error
func (e *Executor) Upgrade(ctx context.Context, target string) (*Report, error) {
	return e.ExecuteSync(ctx, &Request{Target: target, Direction: DirectionUpgrade})
}

// Downgrade moves backward to target; a target ahead of the current tip is an error
func (e *Executor) Downgrade(ctx context.Context, target string) (*Report, error) {
	return e.ExecuteSync(ctx, &Request{Target: target, Direction: DirectionDowngrade})
}

// Plan computes what a migrate call would do without opening a transaction
func (e *Executor) Plan(ctx context.Context, target string) (*Report, error) {
	return e.ExecuteSync(ctx, &Request{Target: target, DryRun: true})
}

// Execute runs the request, or publishes it as a job if a queue is configured
func (e *Executor) Execute(ctx context.Context, req *Request) (*Report, error) {
	e.mu.Lock()
	hasQueue := e.queue != nil
	e.mu.Unlock()

	if hasQueue && !req.DryRun {
		return e.queueJob(ctx, req)
	}
	return e.ExecuteSync(ctx, req)
}

// queueJob queues a migrate job for async execution
func (e *Executor) queueJob(ctx context.Context, req *Request) (*Report, error) {
	executedBy, executionMethod, executionContext := GetExecutionContext(ctx)

	job := &queue.Job{
		ID:        uuid.NewString(),
		Target:    req.Target,
		Direction: string(req.Direction),
		Metadata: map[string]interface{}{
			"executed_by":      executedBy,
			"execution_method": executionMethod,
		},
	}
	if executionContext != "" {
		job.Metadata["execution_context"] = executionContext
	}

	e.mu.Lock()
	q := e.queue
	e.mu.Unlock()

	if err := q.PublishJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to queue migrate job: %w", err)
	}

	now := e.now()
	return &Report{
		Direction: DirectionNone,
		Target:    req.Target,
		Processed: []Step{},
		Success:   true,
		Queued:    true,
		JobID:     job.ID,
		Started:   now,
		Finished:  now,
	}, nil
}

// ExecuteSync executes a request synchronously (bypasses queue, used by worker)
func (e *Executor) ExecuteSync(ctx context.Context, req *Request) (*Report, error) {
	report := &Report{
		Direction: DirectionNone,
		Target:    req.Target,
		DryRun:    req.DryRun,
		Processed: []Step{},
		Started:   e.now(),
	}
	defer func() { report.Finished = e.now() }()

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	chain, err := e.Chain()
	if err != nil {
		return report, err
	}

	if !req.DryRun {
		release, err := e.backend.Lock(ctx, e.opts.LockKey, !e.opts.FailFast)
		if err != nil {
			if errors.Is(err, backends.ErrMigrationInProgress) {
				return report, err
			}
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return report, &TimeoutError{Phase: "lock", Timeout: e.opts.Timeout, Err: err}
			}
			return report, fmt.Errorf("failed to acquire migration lock: %w", err)
		}
		defer release()
	}

	if err := e.ensureInitialized(ctx); err != nil {
		return report, err
	}

	records, err := e.store.Applied(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to read revision history: %w", err)
	}
	if err := verifyDrift(records, chain); err != nil {
		logger.Errorf("Refusing to migrate: %v", err)
		return report, err
	}

	current := state.TipOf(records, chain)
	report.From, report.Tip = current, current

	target, err := chain.Resolve(req.Target, current)
	if err != nil {
		return report, err
	}
	report.Target = displayID(target)

	toApply, toRevert, err := chain.Diff(current, target)
	if err != nil {
		return report, err
	}
	switch {
	case len(toApply) > 0:
		report.Direction = DirectionUpgrade
	case len(toRevert) > 0:
		report.Direction = DirectionDowngrade
	}
	if req.Direction != "" && req.Direction != DirectionNone &&
		report.Direction != DirectionNone && report.Direction != req.Direction {
		return report, &DirectionError{Requested: req.Direction, From: current, Target: target}
	}

	if req.DryRun {
		for _, rev := range toRevert {
			report.Processed = append(report.Processed, Step{Revision: rev.ID, Description: rev.Description, Phase: revision.PhaseRevert, Status: StepPlanned})
		}
		for _, rev := range toApply {
			report.Processed = append(report.Processed, Step{Revision: rev.ID, Description: rev.Description, Phase: revision.PhaseApply, Status: StepPlanned})
		}
		report.Tip = target
		report.Success = true
		return report, nil
	}

	if report.Direction == DirectionNone {
		logger.Infof("Already at %s, nothing to do", displayID(current))
		report.Success = true
		return report, nil
	}

	logger.Infof("Migrating %s from %s to %s (%d revision(s))", report.Direction, displayID(current), displayID(target), len(toApply)+len(toRevert))

	for _, rev := range toRevert {
		step, err := e.runStep(ctx, rev, revision.PhaseRevert, time.Time{})
		if err != nil {
			report.Failed = &step
			return report, err
		}
		report.Processed = append(report.Processed, step)
		report.Tip = rev.Parent
	}

	lastAppliedAt := latestAppliedAt(records)
	for _, rev := range toApply {
		appliedAt := e.now().UTC()
		if !appliedAt.After(lastAppliedAt) {
			// applied_at must not decrease along the chain, even under clock skew
			appliedAt = lastAppliedAt.Add(time.Microsecond)
		}
		step, err := e.runStep(ctx, rev, revision.PhaseApply, appliedAt)
		if err != nil {
			report.Failed = &step
			return report, err
		}
		lastAppliedAt = appliedAt
		report.Processed = append(report.Processed, step)
		report.Tip = rev.ID
	}

	report.Success = true
	return report, nil
}

// runStep runs one revision in its own transaction
func (e *Executor) runStep(ctx context.Context, rev *revision.Revision, phase revision.Phase, appliedAt time.Time) (Step, error) {
	step := Step{Revision: rev.ID, Description: rev.Description, Phase: phase}
	executedBy, executionMethod, _ := GetExecutionContext(ctx)
	log := logger.WithFields(logger.Fields{
		"revision":         rev.ID,
		"phase":            phase,
		"executed_by":      executedBy,
		"execution_method": executionMethod,
	})

	// Cancellation between revisions: start nothing new
	if ctxErr := ctx.Err(); ctxErr != nil {
		err := e.contextError(ctx, rev.ID, phase, ctxErr)
		step.Status = StepFailed
		step.Error = err.Error()
		log.Warnf("Not starting revision: %v", err)
		return step, err
	}

	start := e.now()
	err := e.runInTx(ctx, rev, phase, appliedAt)
	step.Duration = e.now().Sub(start)
	if err != nil {
		step.Status = StepFailed
		step.Error = err.Error()
		log.Errorf("Revision failed: %v", err)
		return step, err
	}

	if phase == revision.PhaseRevert {
		step.Status = StepReverted
	} else {
		step.Status = StepApplied
	}
	log.Infof("Revision %s in %s", step.Status, step.Duration)
	return step, nil
}

// runInTx executes the action and the history mutation in one transaction.
// Any failure rolls the transaction back before returning.
func (e *Executor) runInTx(ctx context.Context, rev *revision.Revision, phase revision.Phase, appliedAt time.Time) error {
	tx, err := e.backend.Begin(ctx)
	if err != nil {
		return e.actionError(ctx, rev.ID, phase, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Warnf("Rollback of revision %s failed: %v", rev.ID, rbErr)
		}
	}()

	if action := rev.ActionFor(phase); action != nil {
		if err := action.Run(ctx, tx); err != nil {
			return e.actionError(ctx, rev.ID, phase, err)
		}
	}

	if phase == revision.PhaseApply {
		err = e.store.RecordApplied(ctx, tx, rev.ID, appliedAt)
	} else {
		err = e.store.RecordReverted(ctx, tx, rev.ID)
	}
	if err != nil {
		if ctx.Err() != nil {
			return e.actionError(ctx, rev.ID, phase, err)
		}
		return fmt.Errorf("%s of revision %s: %w", phase, rev.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return e.actionError(ctx, rev.ID, phase, err)
	}
	committed = true
	return nil
}

// actionError classifies a failure inside a revision transaction
func (e *Executor) actionError(ctx context.Context, id string, phase revision.Phase, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Revision: id, Phase: string(phase), Timeout: e.opts.Timeout, Err: err}
	}
	return &ActionExecutionError{Revision: id, Phase: phase, Err: err}
}

// contextError reports a context that ended before a revision started
func (e *Executor) contextError(ctx context.Context, id string, phase revision.Phase, ctxErr error) error {
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return &TimeoutError{Revision: id, Phase: string(phase), Timeout: e.opts.Timeout, Err: ctxErr}
	}
	return fmt.Errorf("migration cancelled before %s of revision %s: %w", phase, id, ctxErr)
}

func (e *Executor) ensureInitialized(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return nil
	}
	if err := e.store.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize revision history: %w", err)
	}
	e.initialized = true
	return nil
}

// Current returns the current tip ("" when nothing is applied)
func (e *Executor) Current(ctx context.Context) (string, error) {
	chain, err := e.Chain()
	if err != nil {
		return "", err
	}
	if err := e.ensureInitialized(ctx); err != nil {
		return "", err
	}
	return state.CurrentTip(ctx, e.store, chain)
}

// Verify runs the drift check without migrating
func (e *Executor) Verify(ctx context.Context) error {
	chain, err := e.Chain()
	if err != nil {
		return err
	}
	if err := e.ensureInitialized(ctx); err != nil {
		return err
	}
	records, err := e.store.Applied(ctx)
	if err != nil {
		return fmt.Errorf("failed to read revision history: %w", err)
	}
	return verifyDrift(records, chain)
}

// History lists the chain newest first, annotated with applied state
func (e *Executor) History(ctx context.Context) ([]*HistoryEntry, error) {
	chain, err := e.Chain()
	if err != nil {
		return nil, err
	}
	if err := e.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	records, err := e.store.Applied(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read revision history: %w", err)
	}

	applied := make(map[string]time.Time, len(records))
	for _, r := range records {
		applied[r.ID] = r.AppliedAt
	}
	current := state.TipOf(records, chain)

	revs := chain.Revisions()
	entries := make([]*HistoryEntry, 0, len(revs))
	for i := len(revs) - 1; i >= 0; i-- {
		rev := revs[i]
		entry := &HistoryEntry{
			Revision:    rev.ID,
			Parent:      rev.Parent,
			Description: rev.Description,
			Source:      rev.Source,
			IsCurrent:   rev.ID == current,
			IsHead:      i == len(revs)-1,
		}
		if at, ok := applied[rev.ID]; ok {
			entry.Applied = true
			entry.AppliedAt = &at
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// HealthCheck verifies the backend is reachable
func (e *Executor) HealthCheck(ctx context.Context) error {
	return e.backend.HealthCheck(ctx)
}

func latestAppliedAt(records []*state.Record) time.Time {
	var latest time.Time
	for _, r := range records {
		if r.AppliedAt.After(latest) {
			latest = r.AppliedAt
		}
	}
	return latest
}
