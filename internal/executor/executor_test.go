package executor

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolsascode/revmig/internal/backends"
	"github.com/toolsascode/revmig/internal/backends/sqlite"
	"github.com/toolsascode/revmig/internal/queue"
	"github.com/toolsascode/revmig/internal/registry"
	"github.com/toolsascode/revmig/internal/revision"
	"github.com/toolsascode/revmig/internal/state"
	sqlitestate "github.com/toolsascode/revmig/internal/state/sqlite"
)

// countingBackend wraps a backend, counting transactions and optionally
// running a hook after every successful commit
type countingBackend struct {
	backends.Backend
	mu       sync.Mutex
	begins   int
	onCommit func()
}

func (b *countingBackend) Begin(ctx context.Context) (backends.Tx, error) {
	b.mu.Lock()
	b.begins++
	b.mu.Unlock()
	tx, err := b.Backend.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &hookTx{Tx: tx, onCommit: b.onCommit}, nil
}

func (b *countingBackend) Begins() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.begins
}

type hookTx struct {
	backends.Tx
	onCommit func()
}

func (t *hookTx) Commit() error {
	if err := t.Tx.Commit(); err != nil {
		return err
	}
	if t.onCommit != nil {
		t.onCommit()
	}
	return nil
}

// mockQueue records published jobs
type mockQueue struct {
	mu         sync.Mutex
	jobs       []*queue.Job
	publishErr error
}

func (q *mockQueue) PublishJob(ctx context.Context, job *queue.Job) error {
	if q.publishErr != nil {
		return q.publishErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *mockQueue) Consume(ctx context.Context, handler queue.JobHandler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (q *mockQueue) Close() error {
	return nil
}

type fixture struct {
	backend *sqlite.Backend
	counter *countingBackend
	store   *sqlitestate.Tracker
	reg     registry.Registry
	exec    *Executor
}

func newFixture(t *testing.T, opts Options, revs ...*revision.Revision) *fixture {
	t.Helper()

	b := sqlite.NewBackend()
	require.NoError(t, b.Connect(&backends.ConnectionConfig{
		Backend:  "sqlite",
		Database: filepath.Join(t.TempDir(), "revmig.db"),
	}))
	t.Cleanup(func() { _ = b.Close() })

	reg := registry.NewInMemoryRegistry()
	for _, rev := range revs {
		require.NoError(t, reg.Register(rev))
	}

	counter := &countingBackend{Backend: b}
	store := sqlitestate.NewTracker(b.DB(), "")
	return &fixture{
		backend: b,
		counter: counter,
		store:   store,
		reg:     reg,
		exec:    NewExecutor(reg, store, counter, opts),
	}
}

// productChain is root -> A -> B -> C; A creates a table, B seeds a row,
// C creates a second table
func productChain() []*revision.Revision {
	return []*revision.Revision{
		{
			ID:          "a1b2c3d4e5f6",
			Description: "create product_codes",
			Apply:       revision.Statements{"CREATE TABLE product_codes (code TEXT PRIMARY KEY, name TEXT NOT NULL)"},
			Revert:      revision.Statements{"DROP TABLE product_codes"},
		},
		{
			ID:          "b2c3d4e5f6a1",
			Parent:      "a1b2c3d4e5f6",
			Description: "add Site Registry product code",
			Apply:       revision.Statements{"INSERT INTO product_codes (code, name) VALUES ('ESRA', 'Site Registry')"},
			Revert:      revision.Statements{"DELETE FROM product_codes WHERE code = 'ESRA'"},
		},
		{
			ID:          "c3d4e5f6a1b2",
			Parent:      "b2c3d4e5f6a1",
			Description: "create line_items",
			Apply:       revision.Statements{"CREATE TABLE line_items (id INTEGER PRIMARY KEY, item_value VARCHAR(100))"},
			Revert:      revision.Statements{"DROP TABLE line_items"},
		},
	}
}

const (
	revA = "a1b2c3d4e5f6"
	revB = "b2c3d4e5f6a1"
	revC = "c3d4e5f6a1b2"
)

func (f *fixture) appliedIDs(t *testing.T) []string {
	t.Helper()
	records, err := f.store.Applied(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func (f *fixture) tableExists(t *testing.T, name string) bool {
	t.Helper()
	var count int
	err := f.backend.DB().QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

func (f *fixture) insertHistory(t *testing.T, id, appliedAt string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Initialize(ctx))
	_, err := f.backend.DB().ExecContext(ctx, "INSERT INTO revision_history (id, applied_at) VALUES (?, ?)", id, appliedAt)
	require.NoError(t, err)
}

func TestExecutor_UpgradeToHead(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)

	report, err := f.exec.Upgrade(context.Background(), revision.Head)
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.Equal(t, DirectionUpgrade, report.Direction)
	assert.Equal(t, []string{revA, revB, revC}, report.ProcessedIDs())
	assert.Equal(t, "", report.From)
	assert.Equal(t, revC, report.Tip)
	for _, step := range report.Processed {
		assert.Equal(t, StepApplied, step.Status)
		assert.Equal(t, revision.PhaseApply, step.Phase)
	}

	assert.Equal(t, []string{revA, revB, revC}, f.appliedIDs(t))
	assert.True(t, f.tableExists(t, "product_codes"))
	assert.True(t, f.tableExists(t, "line_items"))

	current, err := f.exec.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, revC, current)
}

func TestExecutor_DowngradeRevertsInReverseOrder(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	ctx := context.Background()

	_, err := f.exec.Upgrade(ctx, revision.Head)
	require.NoError(t, err)

	report, err := f.exec.Downgrade(ctx, revA)
	require.NoError(t, err)

	assert.Equal(t, DirectionDowngrade, report.Direction)
	assert.Equal(t, []string{revC, revB}, report.ProcessedIDs())
	assert.Equal(t, revA, report.Tip)
	for _, step := range report.Processed {
		assert.Equal(t, StepReverted, step.Status)
	}

	assert.Equal(t, []string{revA}, f.appliedIDs(t))
	assert.False(t, f.tableExists(t, "line_items"))

	var rows int
	require.NoError(t, f.backend.DB().QueryRow("SELECT COUNT(*) FROM product_codes").Scan(&rows))
	assert.Equal(t, 0, rows)
}

func TestExecutor_RelativeDowngrade(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	ctx := context.Background()

	_, err := f.exec.Upgrade(ctx, revision.Head)
	require.NoError(t, err)

	report, err := f.exec.Downgrade(ctx, "-1")
	require.NoError(t, err)
	assert.Equal(t, []string{revC}, report.ProcessedIDs())
	assert.Equal(t, revB, report.Tip)

	report, err = f.exec.Upgrade(ctx, "+1")
	require.NoError(t, err)
	assert.Equal(t, []string{revC}, report.ProcessedIDs())
}

func TestExecutor_PartialIDTarget(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)

	report, err := f.exec.Upgrade(context.Background(), "b2c3")
	require.NoError(t, err)
	assert.Equal(t, []string{revA, revB}, report.ProcessedIDs())
	assert.Equal(t, revB, report.Target)
}

func TestExecutor_NoOpOpensNoTransaction(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	ctx := context.Background()

	_, err := f.exec.Upgrade(ctx, revision.Head)
	require.NoError(t, err)
	begins := f.counter.Begins()

	report, err := f.exec.Migrate(ctx, revision.Head)
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, DirectionNone, report.Direction)
	assert.Empty(t, report.Processed)
	assert.Equal(t, revC, report.Tip)
	assert.Equal(t, begins, f.counter.Begins())
}

func TestExecutor_EmptyChain(t *testing.T) {
	f := newFixture(t, Options{})

	report, err := f.exec.Migrate(context.Background(), revision.Head)
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Empty(t, report.Processed)
	assert.Equal(t, 0, f.counter.Begins())
}

func TestExecutor_RoundTripLeavesHistoryEmpty(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	ctx := context.Background()

	_, err := f.exec.Upgrade(ctx, revision.Head)
	require.NoError(t, err)

	report, err := f.exec.Downgrade(ctx, revision.Base)
	require.NoError(t, err)
	assert.Equal(t, []string{revC, revB, revA}, report.ProcessedIDs())
	assert.Equal(t, "", report.Tip)
	assert.Equal(t, revision.Base, report.Target)

	assert.Empty(t, f.appliedIDs(t))
	assert.False(t, f.tableExists(t, "product_codes"))
	assert.False(t, f.tableExists(t, "line_items"))
}

func TestExecutor_FailureKeepsEarlierRevisions(t *testing.T) {
	revs := productChain()
	revs[1].Apply = revision.Statements{
		"CREATE TABLE partial_work (id INTEGER)",
		"INSERT INTO missing_table VALUES (1)",
	}
	f := newFixture(t, Options{}, revs...)

	report, err := f.exec.Upgrade(context.Background(), revision.Head)
	require.Error(t, err)

	var actionErr *ActionExecutionError
	require.True(t, errors.As(err, &actionErr), "expected ActionExecutionError, got %T", err)
	assert.Equal(t, revB, actionErr.Revision)
	assert.Equal(t, revision.PhaseApply, actionErr.Phase)
	assert.Equal(t, "ACTION_FAILED", actionErr.Code())

	assert.False(t, report.Success)
	assert.Equal(t, []string{revA}, report.ProcessedIDs())
	require.NotNil(t, report.Failed)
	assert.Equal(t, revB, report.Failed.Revision)
	assert.Equal(t, StepFailed, report.Failed.Status)
	assert.Equal(t, revA, report.Tip)

	// A stays committed, B left no trace
	assert.Equal(t, []string{revA}, f.appliedIDs(t))
	assert.True(t, f.tableExists(t, "product_codes"))
	assert.False(t, f.tableExists(t, "partial_work"))
	assert.False(t, f.tableExists(t, "line_items"))
}

func TestExecutor_FailedRevertKeepsRecord(t *testing.T) {
	revs := productChain()
	revs[2].Revert = revision.Statements{"DROP TABLE no_such_table"}
	f := newFixture(t, Options{}, revs...)
	ctx := context.Background()

	_, err := f.exec.Upgrade(ctx, revision.Head)
	require.NoError(t, err)

	report, err := f.exec.Downgrade(ctx, revision.Base)
	var actionErr *ActionExecutionError
	require.True(t, errors.As(err, &actionErr))
	assert.Equal(t, revC, actionErr.Revision)
	assert.Equal(t, revision.PhaseRevert, actionErr.Phase)
	assert.Empty(t, report.Processed)
	assert.Equal(t, []string{revA, revB, revC}, f.appliedIDs(t))
}

func TestExecutor_DriftUnknownRevision(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	ctx := context.Background()

	_, err := f.exec.Upgrade(ctx, revA)
	require.NoError(t, err)
	f.insertHistory(t, "ffffffffffff", "2099-01-01T00:00:00.000000000Z")
	begins := f.counter.Begins()

	_, err = f.exec.Upgrade(ctx, revision.Head)
	var drift *DriftDetectedError
	require.True(t, errors.As(err, &drift), "expected DriftDetectedError, got %v", err)
	assert.Equal(t, DriftUnknownRevision, drift.Kind)
	assert.Equal(t, []string{"ffffffffffff"}, drift.Revisions)
	assert.Equal(t, "DRIFT_DETECTED", drift.Code())

	// nothing ran
	assert.Equal(t, begins, f.counter.Begins())
	assert.False(t, f.tableExists(t, "line_items"))

	assert.Error(t, f.exec.Verify(ctx))
}

func TestExecutor_DriftNotPrefix(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	f.insertHistory(t, revB, "2026-01-01T00:00:00.000000000Z")

	_, err := f.exec.Migrate(context.Background(), revision.Head)
	var drift *DriftDetectedError
	require.True(t, errors.As(err, &drift))
	assert.Equal(t, DriftNotPrefix, drift.Kind)
	assert.Equal(t, []string{revA}, drift.Revisions)
	assert.Equal(t, 0, f.counter.Begins())
}

func TestExecutor_DriftOrderMismatch(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	f.insertHistory(t, revA, "2026-01-02T00:00:00.000000000Z")
	f.insertHistory(t, revB, "2026-01-01T00:00:00.000000000Z")

	err := f.exec.Verify(context.Background())
	var drift *DriftDetectedError
	require.True(t, errors.As(err, &drift))
	assert.Equal(t, DriftOrderMismatch, drift.Kind)
	assert.Equal(t, []string{revA, revB}, drift.Revisions)
}

func TestExecutor_EqualTimestampsAreNotDrift(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	f.insertHistory(t, revA, "2026-01-01T00:00:00.000000000Z")
	f.insertHistory(t, revB, "2026-01-01T00:00:00.000000000Z")

	assert.NoError(t, f.exec.Verify(context.Background()))

	current, err := f.exec.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, revB, current)
}

func TestExecutor_ClockSkewKeepsOrder(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	ctx := context.Background()

	f.insertHistory(t, revA, "2030-01-01T00:00:00.000000000Z")
	f.exec.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	_, err := f.exec.Upgrade(ctx, revision.Head)
	require.NoError(t, err)
	assert.NoError(t, f.exec.Verify(ctx))

	records, err := f.store.Applied(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[1].AppliedAt.After(records[0].AppliedAt))
	assert.True(t, records[2].AppliedAt.After(records[1].AppliedAt))
}

func TestExecutor_GraphIntegrityErrorRefusesToRun(t *testing.T) {
	revs := productChain()
	revs[2].Parent = "deadbeef"
	f := newFixture(t, Options{}, revs...)

	_, err := f.exec.Migrate(context.Background(), revision.Head)
	var graphErr *registry.GraphIntegrityError
	require.True(t, errors.As(err, &graphErr))
	assert.Equal(t, registry.KindUnknownParent, graphErr.Kind)
	assert.Equal(t, 0, f.counter.Begins())
}

func TestExecutor_UnknownTarget(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)

	_, err := f.exec.Migrate(context.Background(), "zzz")
	assert.True(t, errors.Is(err, registry.ErrRevisionNotFound))
	assert.Equal(t, 0, f.counter.Begins())
}

func TestExecutor_DirectionErrors(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	ctx := context.Background()

	_, err := f.exec.Upgrade(ctx, revB)
	require.NoError(t, err)

	_, err = f.exec.Upgrade(ctx, revA)
	var dirErr *DirectionError
	require.True(t, errors.As(err, &dirErr))
	assert.Equal(t, DirectionUpgrade, dirErr.Requested)
	assert.Equal(t, "INVALID_DIRECTION", dirErr.Code())

	_, err = f.exec.Downgrade(ctx, revision.Head)
	require.True(t, errors.As(err, &dirErr))
	assert.Equal(t, DirectionDowngrade, dirErr.Requested)

	assert.Equal(t, []string{revA, revB}, f.appliedIDs(t))
}

func TestExecutor_PlanDoesNotTouchDatabase(t *testing.T) {
	f := newFixture(t, Options{FailFast: true}, productChain()...)
	ctx := context.Background()

	// a dry run takes no lock
	release, err := f.backend.Lock(ctx, DefaultLockKey, true)
	require.NoError(t, err)
	defer release()

	report, err := f.exec.Plan(ctx, revision.Head)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, []string{revA, revB, revC}, report.ProcessedIDs())
	for _, step := range report.Processed {
		assert.Equal(t, StepPlanned, step.Status)
	}
	assert.Equal(t, revC, report.Tip)
	assert.Equal(t, 0, f.counter.Begins())
	assert.Empty(t, f.appliedIDs(t))
	assert.False(t, f.tableExists(t, "product_codes"))
}

func TestExecutor_FailFastWhenLocked(t *testing.T) {
	f := newFixture(t, Options{FailFast: true}, productChain()...)
	ctx := context.Background()

	release, err := f.backend.Lock(ctx, DefaultLockKey, true)
	require.NoError(t, err)
	defer release()

	_, err = f.exec.Migrate(ctx, revision.Head)
	assert.True(t, errors.Is(err, backends.ErrMigrationInProgress))
	assert.Equal(t, 0, f.counter.Begins())
}

func TestExecutor_TimeoutWaitingForLock(t *testing.T) {
	f := newFixture(t, Options{Timeout: 50 * time.Millisecond}, productChain()...)
	ctx := context.Background()

	release, err := f.backend.Lock(ctx, DefaultLockKey, true)
	require.NoError(t, err)
	defer release()

	_, err = f.exec.Migrate(ctx, revision.Head)
	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr), "expected TimeoutError, got %v", err)
	assert.Equal(t, "lock", timeoutErr.Phase)
	assert.Empty(t, timeoutErr.Revision)
}

func TestExecutor_TimeoutDuringAction(t *testing.T) {
	revs := productChain()
	revs[1].Apply = revision.ActionFunc(func(ctx context.Context, tx backends.Tx) error {
		if _, err := tx.Exec(ctx, "INSERT INTO product_codes (code, name) VALUES ('ESRA', 'Site Registry')"); err != nil {
			return err
		}
		<-ctx.Done()
		return ctx.Err()
	})
	f := newFixture(t, Options{Timeout: 100 * time.Millisecond}, revs...)

	report, err := f.exec.Upgrade(context.Background(), revision.Head)
	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr), "expected TimeoutError, got %v", err)
	assert.Equal(t, revB, timeoutErr.Revision)
	assert.Equal(t, "TIMEOUT", timeoutErr.Code())
	assert.Equal(t, []string{revA}, report.ProcessedIDs())

	assert.Equal(t, []string{revA}, f.appliedIDs(t))
	var rows int
	require.NoError(t, f.backend.DB().QueryRow("SELECT COUNT(*) FROM product_codes").Scan(&rows))
	assert.Equal(t, 0, rows)
}

func TestExecutor_CancellationStopsBetweenRevisions(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// cancel right after the first revision commits
	f.counter.onCommit = cancel

	report, err := f.exec.Upgrade(ctx, revision.Head)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []string{revA}, report.ProcessedIDs())
	require.NotNil(t, report.Failed)
	assert.Equal(t, revB, report.Failed.Revision)

	assert.Equal(t, []string{revA}, f.appliedIDs(t))
	assert.Equal(t, 1, f.counter.Begins())
}

func TestExecutor_ExecuteQueuesJob(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	q := &mockQueue{}
	f.exec.SetQueue(q)

	ctx := SetExecutionContext(context.Background(), "alice", "http", map[string]interface{}{"ticket": "OPS-12"})
	report, err := f.exec.Execute(ctx, &Request{Target: revision.Head, Direction: DirectionUpgrade})
	require.NoError(t, err)

	assert.True(t, report.Queued)
	assert.NotEmpty(t, report.JobID)
	require.Len(t, q.jobs, 1)
	job := q.jobs[0]
	assert.Equal(t, report.JobID, job.ID)
	assert.Equal(t, revision.Head, job.Target)
	assert.Equal(t, "upgrade", job.Direction)
	assert.Equal(t, "alice", job.Metadata["executed_by"])
	assert.Equal(t, "http", job.Metadata["execution_method"])
	assert.JSONEq(t, `{"ticket":"OPS-12"}`, job.Metadata["execution_context"].(string))

	assert.Equal(t, 0, f.counter.Begins())
	assert.Empty(t, f.appliedIDs(t))
}

func TestExecutor_ExecuteDryRunBypassesQueue(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	q := &mockQueue{}
	f.exec.SetQueue(q)

	report, err := f.exec.Execute(context.Background(), &Request{Target: revision.Head, DryRun: true})
	require.NoError(t, err)
	assert.False(t, report.Queued)
	assert.Len(t, report.Processed, 3)
	assert.Empty(t, q.jobs)
}

func TestExecutor_ExecuteQueueError(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	f.exec.SetQueue(&mockQueue{publishErr: errors.New("broker unavailable")})

	_, err := f.exec.Execute(context.Background(), &Request{Target: revision.Head})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}

func TestExecutor_History(t *testing.T) {
	f := newFixture(t, Options{}, productChain()...)
	ctx := context.Background()

	_, err := f.exec.Upgrade(ctx, revB)
	require.NoError(t, err)

	entries, err := f.exec.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, revC, entries[0].Revision)
	assert.True(t, entries[0].IsHead)
	assert.False(t, entries[0].Applied)
	assert.Nil(t, entries[0].AppliedAt)

	assert.Equal(t, revB, entries[1].Revision)
	assert.True(t, entries[1].IsCurrent)
	assert.True(t, entries[1].Applied)
	assert.NotNil(t, entries[1].AppliedAt)

	assert.Equal(t, revA, entries[2].Revision)
	assert.Equal(t, "", entries[2].Parent)
}

func TestExecutor_SetRegistry(t *testing.T) {
	f := newFixture(t, Options{}, productChain()[:2]...)
	ctx := context.Background()

	_, err := f.exec.Upgrade(ctx, revision.Head)
	require.NoError(t, err)

	full := registry.NewInMemoryRegistry()
	for _, rev := range productChain() {
		require.NoError(t, full.Register(rev))
	}
	f.exec.SetRegistry(full)
	assert.Equal(t, full, f.exec.GetRegistry())

	report, err := f.exec.Upgrade(ctx, revision.Head)
	require.NoError(t, err)
	assert.Equal(t, []string{revC}, report.ProcessedIDs())
}

func TestExecutor_HealthCheck(t *testing.T) {
	f := newFixture(t, Options{})
	assert.NoError(t, f.exec.HealthCheck(context.Background()))
}

func TestExecutionContext(t *testing.T) {
	executedBy, method, execCtx := GetExecutionContext(context.Background())
	assert.Equal(t, "system", executedBy)
	assert.Equal(t, "api", method)
	assert.Empty(t, execCtx)

	ctx := SetExecutionContext(context.Background(), "bob", "cli", nil)
	executedBy, method, execCtx = GetExecutionContext(ctx)
	assert.Equal(t, "bob", executedBy)
	assert.Equal(t, "cli", method)
	assert.Empty(t, execCtx)
}

var _ state.HistoryStore = (*sqlitestate.Tracker)(nil)
