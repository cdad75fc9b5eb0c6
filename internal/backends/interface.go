package backends

import (
	"context"
	"errors"
)

// ErrMigrationInProgress is returned by Lock when another runner holds the
// migration lock and the caller asked to fail fast instead of waiting.
var ErrMigrationInProgress = errors.New("migration in progress: lock held by another runner")

// Tx is one open transaction against the target database. Revision actions and
// history store mutations run through the same Tx so they commit together.
type Tx interface {
	// Exec runs a single statement and returns the number of affected rows (or keys)
	Exec(ctx context.Context, statement string, args ...interface{}) (int64, error)

	// Commit makes every statement of the transaction durable
	Commit() error

	// Rollback discards the transaction. Calling it after Commit is a no-op.
	Rollback() error
}

// Backend represents a database backend that revisions are applied to
type Backend interface {
	// Name returns the name of the backend (e.g., "postgresql", "sqlite", "etcd")
	Name() string

	// Connect establishes a connection to the backend
	Connect(config *ConnectionConfig) error

	// Close closes the connection to the backend
	Close() error

	// Begin opens a new transaction
	Begin(ctx context.Context) (Tx, error)

	// Lock takes the exclusive migration lock identified by key. With wait=false
	// it returns ErrMigrationInProgress instead of blocking. The returned release
	// function must always be called.
	Lock(ctx context.Context, key string, wait bool) (release func(), err error)

	// HealthCheck verifies the backend is accessible
	HealthCheck(ctx context.Context) error
}

// ConnectionConfig holds configuration for a backend connection
type ConnectionConfig struct {
	Backend  string // "postgresql", "sqlite", "etcd"
	Host     string
	Port     string
	Username string
	Password string
	Database string // database name; file path or ":memory:" for sqlite
	Schema   string
	Extra    map[string]string // Additional backend-specific config
}

// ExtraOrDefault returns an Extra value or the given default
func (c *ConnectionConfig) ExtraOrDefault(key, defaultValue string) string {
	if c == nil || c.Extra == nil {
		return defaultValue
	}
	if v, ok := c.Extra[key]; ok && v != "" {
		return v
	}
	return defaultValue
}
