package backends

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLTx adapts *sql.Tx to Tx for database/sql based backends
type SQLTx struct {
	tx *sql.Tx
}

// NewSQLTx wraps an open *sql.Tx
func NewSQLTx(tx *sql.Tx) *SQLTx {
	return &SQLTx{tx: tx}
}

// Exec runs a statement inside the transaction
func (t *SQLTx) Exec(ctx context.Context, statement string, args ...interface{}) (int64, error) {
	result, err := t.tx.ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		// DDL statements on some drivers do not report affected rows
		return 0, nil
	}
	return affected, nil
}

// Commit commits the transaction
func (t *SQLTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls the transaction back; rolling back a finished transaction is not an error
func (t *SQLTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}
