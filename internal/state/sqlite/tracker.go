package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/toolsascode/revmig/internal/backends"
	"github.com/toolsascode/revmig/internal/state"
)

// Fixed width so that text ordering matches time ordering
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Tracker implements HistoryStore for SQLite
type Tracker struct {
	db    *sql.DB
	table string
}

// NewTracker creates a SQLite history store over the target database
func NewTracker(db *sql.DB, table string) *Tracker {
	if table == "" {
		table = state.DefaultTable
	}
	return &Tracker{db: db, table: table}
}

func (t *Tracker) tableName() string {
	return `"` + strings.ReplaceAll(t.table, `"`, `""`) + `"`
}

// Initialize creates the history table
func (t *Tracker) Initialize(ctx context.Context) error {
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`, t.tableName())

	if _, err := t.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create %s table: %w", t.table, err)
	}
	return nil
}

// Applied returns the applied set ordered by applied_at, then id
func (t *Tracker) Applied(ctx context.Context) ([]*state.Record, error) {
	query := fmt.Sprintf("SELECT id, applied_at FROM %s ORDER BY applied_at, id", t.tableName())

	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.table, err)
	}
	defer func() { _ = rows.Close() }()

	var records []*state.Record
	for rows.Next() {
		var id, appliedAt string
		if err := rows.Scan(&id, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		at, err := time.Parse(timestampLayout, appliedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid applied_at %q for revision %s: %w", appliedAt, id, err)
		}
		records = append(records, &state.Record{ID: id, AppliedAt: at})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.table, err)
	}
	return records, nil
}

// RecordApplied inserts the record inside tx
func (t *Tracker) RecordApplied(ctx context.Context, tx backends.Tx, id string, appliedAt time.Time) error {
	insertSQL := fmt.Sprintf("INSERT INTO %s (id, applied_at) VALUES (?, ?) ON CONFLICT (id) DO NOTHING", t.tableName())

	affected, err := tx.Exec(ctx, insertSQL, id, appliedAt.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("failed to record revision %s: %w", id, err)
	}
	if affected == 0 {
		return &state.DuplicateApplicationError{ID: id}
	}
	return nil
}

// RecordReverted deletes the record inside tx
func (t *Tracker) RecordReverted(ctx context.Context, tx backends.Tx, id string) error {
	deleteSQL := fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.tableName())

	affected, err := tx.Exec(ctx, deleteSQL, id)
	if err != nil {
		return fmt.Errorf("failed to remove revision %s: %w", id, err)
	}
	if affected == 0 {
		return &state.NotAppliedError{ID: id}
	}
	return nil
}
