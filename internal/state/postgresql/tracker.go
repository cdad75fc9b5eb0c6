package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/toolsascode/revmig/internal/backends"
	"github.com/toolsascode/revmig/internal/backends/postgresql"
	"github.com/toolsascode/revmig/internal/state"
)

// Tracker implements HistoryStore for PostgreSQL
type Tracker struct {
	db     *sql.DB
	schema string
	table  string
}

// NewTracker creates a PostgreSQL history store over the target database
func NewTracker(db *sql.DB, schema, table string) *Tracker {
	if table == "" {
		table = state.DefaultTable
	}
	return &Tracker{
		db:     db,
		schema: schema,
		table:  table,
	}
}

func (t *Tracker) tableName() string {
	if t.schema != "" && t.schema != "public" {
		return fmt.Sprintf("%s.%s", postgresql.QuoteIdentifier(t.schema), postgresql.QuoteIdentifier(t.table))
	}
	return postgresql.QuoteIdentifier(t.table)
}

// Initialize creates the history table
func (t *Tracker) Initialize(ctx context.Context) error {
	// Ensure schema exists
	if t.schema != "" && t.schema != "public" {
		schemaQuery := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", postgresql.QuoteIdentifier(t.schema))
		if _, err := t.db.ExecContext(ctx, schemaQuery); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
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
		record := &state.Record{}
		if err := rows.Scan(&record.ID, &record.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.table, err)
	}
	return records, nil
}

// RecordApplied inserts the record inside tx
func (t *Tracker) RecordApplied(ctx context.Context, tx backends.Tx, id string, appliedAt time.Time) error {
	insertSQL := fmt.Sprintf("INSERT INTO %s (id, applied_at) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING", t.tableName())

	affected, err := tx.Exec(ctx, insertSQL, id, appliedAt.UTC())
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
	deleteSQL := fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.tableName())

	affected, err := tx.Exec(ctx, deleteSQL, id)
	if err != nil {
		return fmt.Errorf("failed to remove revision %s: %w", id, err)
	}
	if affected == 0 {
		return &state.NotAppliedError{ID: id}
	}
	return nil
}
