package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/toolsascode/revmig/internal/backends"
	sqlitebackend "github.com/toolsascode/revmig/internal/backends/sqlite"
	"github.com/toolsascode/revmig/internal/state"
)

func setupTracker(t *testing.T) (*sqlitebackend.Backend, *Tracker) {
	t.Helper()
	backend := sqlitebackend.NewBackend()
	if err := backend.Connect(&backends.ConnectionConfig{Backend: "sqlite", Database: filepath.Join(t.TempDir(), "history.db")}); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })

	tracker := NewTracker(backend.DB(), "")
	if err := tracker.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	// Initialize is idempotent
	if err := tracker.Initialize(context.Background()); err != nil {
		t.Fatalf("second Initialize() error = %v", err)
	}
	return backend, tracker
}

func inTx(t *testing.T, backend *sqlitebackend.Backend, fn func(tx backends.Tx) error) error {
	t.Helper()
	ctx := context.Background()
	tx, err := backend.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func TestTracker_ApplyRevertRoundTrip(t *testing.T) {
	backend, tracker := setupTracker(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	chain := []string{"a", "b", "c"}
	for i, id := range chain {
		err := inTx(t, backend, func(tx backends.Tx) error {
			return tracker.RecordApplied(ctx, tx, id, base.Add(time.Duration(i)*time.Millisecond))
		})
		if err != nil {
			t.Fatalf("RecordApplied(%s) error = %v", id, err)
		}
	}

	records, err := tracker.Applied(ctx)
	if err != nil {
		t.Fatalf("Applied() error = %v", err)
	}
	if len(records) != 3 || records[0].ID != "a" || records[2].ID != "c" {
		t.Fatalf("Applied() = %v", records)
	}
	if !records[1].AppliedAt.Equal(base.Add(time.Millisecond)) {
		t.Errorf("applied_at = %v, want %v", records[1].AppliedAt, base.Add(time.Millisecond))
	}

	for i := len(chain) - 1; i >= 0; i-- {
		id := chain[i]
		if err := inTx(t, backend, func(tx backends.Tx) error { return tracker.RecordReverted(ctx, tx, id) }); err != nil {
			t.Fatalf("RecordReverted(%s) error = %v", id, err)
		}
	}

	records, err = tracker.Applied(ctx)
	if err != nil {
		t.Fatalf("Applied() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("history should be empty after reverting everything, got %d records", len(records))
	}
}

func TestTracker_Duplicate(t *testing.T) {
	backend, tracker := setupTracker(t)
	ctx := context.Background()

	if err := inTx(t, backend, func(tx backends.Tx) error { return tracker.RecordApplied(ctx, tx, "a", time.Now()) }); err != nil {
		t.Fatalf("RecordApplied() error = %v", err)
	}

	err := inTx(t, backend, func(tx backends.Tx) error { return tracker.RecordApplied(ctx, tx, "a", time.Now()) })
	var dup *state.DuplicateApplicationError
	if !errors.As(err, &dup) {
		t.Fatalf("second RecordApplied() error = %v, want DuplicateApplicationError", err)
	}
}

func TestTracker_NotApplied(t *testing.T) {
	backend, tracker := setupTracker(t)

	err := inTx(t, backend, func(tx backends.Tx) error {
		return tracker.RecordReverted(context.Background(), tx, "ghost")
	})
	var notApplied *state.NotAppliedError
	if !errors.As(err, &notApplied) {
		t.Fatalf("RecordReverted() error = %v, want NotAppliedError", err)
	}
}

func TestTracker_RollbackDiscardsRecord(t *testing.T) {
	backend, tracker := setupTracker(t)
	ctx := context.Background()

	tx, err := backend.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := tracker.RecordApplied(ctx, tx, "a", time.Now()); err != nil {
		t.Fatalf("RecordApplied() error = %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}

	records, err := tracker.Applied(ctx)
	if err != nil {
		t.Fatalf("Applied() error = %v", err)
	}
	if len(records) != 0 {
		t.Error("record survived a rolled back transaction")
	}
}
