package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/toolsascode/revmig/internal/backends"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// Backend implements the Backend interface for PostgreSQL
type Backend struct {
	db     *sql.DB
	config *backends.ConnectionConfig
}

// NewBackend creates a new PostgreSQL backend
func NewBackend() *Backend {
	return &Backend{}
}

// NewBackendWithDB wraps an already opened database handle
func NewBackendWithDB(db *sql.DB, config *backends.ConnectionConfig) *Backend {
	if config == nil {
		config = &backends.ConnectionConfig{Backend: "postgresql"}
	}
	return &Backend{db: db, config: config}
}

// Name returns the backend name
func (b *Backend) Name() string {
	return "postgresql"
}

// DB exposes the underlying handle for the history store
func (b *Backend) DB() *sql.DB {
	return b.db
}

// Schema returns the configured schema, empty for the default search_path
func (b *Backend) Schema() string {
	if b.config == nil {
		return ""
	}
	return b.config.Schema
}

// Connect establishes a connection to PostgreSQL. The lib/pq driver is used
// unless Extra["driver"] is "pgx".
func (b *Backend) Connect(config *backends.ConnectionConfig) error {
	b.config = config

	// Build connection string
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host,
		config.Port,
		config.Username,
		config.Password,
		config.Database,
		config.ExtraOrDefault("sslmode", "disable"),
	)

	driver := "postgres"
	if config.ExtraOrDefault("driver", "pq") == "pgx" {
		driver = "pgx"
	}

	var err error
	b.db, err = sql.Open(driver, connStr)
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}

	// Configure connection pool settings
	configureConnectionPool(b.db)

	// Test connection
	if err := b.db.Ping(); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if config.Schema != "" {
		if err := b.CreateSchema(context.Background(), config.Schema); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the PostgreSQL connection
func (b *Backend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// Begin opens a transaction. When a schema is configured the transaction's
// search_path is pinned to it so unqualified names resolve there.
func (b *Backend) Begin(ctx context.Context) (backends.Tx, error) {
	if b.db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if schema := b.Schema(); schema != "" {
		setPathSQL := fmt.Sprintf("SET LOCAL search_path TO %s, public", QuoteIdentifier(schema))
		if _, err := tx.ExecContext(ctx, setPathSQL); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to set search_path: %w", err)
		}
	}

	return backends.NewSQLTx(tx), nil
}

// Lock takes a session-level advisory lock. The session is pinned to a single
// pooled connection for the lifetime of the lock.
func (b *Backend) Lock(ctx context.Context, key string, wait bool) (func(), error) {
	if b.db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}

	lockID := LockID(key)

	conn, err := b.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve connection for lock: %w", err)
	}

	if wait {
		if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockID); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("pg_advisory_lock(%d): %w", lockID, err)
		}
	} else {
		var acquired bool
		if err := conn.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockID).Scan(&acquired); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("pg_try_advisory_lock(%d): %w", lockID, err)
		}
		if !acquired {
			_ = conn.Close()
			return nil, backends.ErrMigrationInProgress
		}
	}

	release := func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
		_ = conn.Close()
	}
	return release, nil
}

// CreateSchema creates a schema if it doesn't exist
func (b *Backend) CreateSchema(ctx context.Context, schemaName string) error {
	query := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", QuoteIdentifier(schemaName))
	_, err := b.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schemaName, err)
	}
	return nil
}

// TableExists checks if a table exists in a schema
func (b *Backend) TableExists(ctx context.Context, schemaName, tableName string) (bool, error) {
	if schemaName == "" {
		schemaName = "public"
	}
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)
	`
	var exists bool
	err := b.db.QueryRowContext(ctx, query, schemaName, tableName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return exists, nil
}

// HealthCheck verifies the backend is accessible
func (b *Backend) HealthCheck(ctx context.Context) error {
	if b.db == nil {
		return fmt.Errorf("database connection not initialized")
	}
	return b.db.PingContext(ctx)
}

// LockID maps a lock key to the int64 space of pg_advisory_lock
func LockID(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64() & 0x7FFFFFFFFFFFFFFF)
}

// QuoteIdentifier quotes a PostgreSQL identifier
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// configureConnectionPool configures the database connection pool with reasonable defaults
// that can be overridden via environment variables
func configureConnectionPool(db *sql.DB) {
	// Max open connections per pool (default: 5). The advisory lock pins one
	// of these for the whole run, so keep at least two.
	maxOpenConns := getEnvInt("REVMIG_DB_MAX_OPEN_CONNS", 5)
	if maxOpenConns < 2 {
		maxOpenConns = 2
	}
	db.SetMaxOpenConns(maxOpenConns)

	maxIdleConns := getEnvInt("REVMIG_DB_MAX_IDLE_CONNS", 2)
	db.SetMaxIdleConns(maxIdleConns)

	connMaxLifetime := time.Duration(getEnvInt("REVMIG_DB_CONN_MAX_LIFETIME_MINUTES", 5)) * time.Minute
	db.SetConnMaxLifetime(connMaxLifetime)

	connMaxIdleTime := time.Duration(getEnvInt("REVMIG_DB_CONN_MAX_IDLE_TIME_MINUTES", 1)) * time.Minute
	db.SetConnMaxIdleTime(connMaxIdleTime)
}

// getEnvInt gets an integer environment variable or returns the default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
