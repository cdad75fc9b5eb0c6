package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/toolsascode/revmig/internal/backends"

	_ "modernc.org/sqlite"
)

// SQLite has no advisory locks. Runners inside one process serialize on a
// semaphore per database file; other processes are kept out by a lock file
// created next to the database.
var (
	lockRetryInterval = 100 * time.Millisecond

	semaphoresMu sync.Mutex
	semaphores   = make(map[string]chan struct{})
)

func semaphoreFor(name string) chan struct{} {
	semaphoresMu.Lock()
	defer semaphoresMu.Unlock()

	sem, ok := semaphores[name]
	if !ok {
		sem = make(chan struct{}, 1)
		semaphores[name] = sem
	}
	return sem
}

// Backend implements the Backend interface for SQLite
type Backend struct {
	db   *sql.DB
	path string
	// lock files older than this are considered abandoned
	lockStale time.Duration
}

// NewBackend creates a new SQLite backend
func NewBackend() *Backend {
	return &Backend{lockStale: time.Hour}
}

// Name returns the backend name
func (b *Backend) Name() string {
	return "sqlite"
}

// DB exposes the underlying handle for the history store
func (b *Backend) DB() *sql.DB {
	return b.db
}

// Connect opens the database file named by config.Database (":memory:" for a
// private in-memory database)
func (b *Backend) Connect(config *backends.ConnectionConfig) error {
	path := config.Database
	if path == "" {
		return fmt.Errorf("sqlite database path is required")
	}

	dsn := path
	if path != ":memory:" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=busy_timeout(" + config.ExtraOrDefault("busy_timeout", "5000") + ")&_pragma=foreign_keys(ON)"
	}

	if stale, err := time.ParseDuration(config.ExtraOrDefault("lock_stale", "1h")); err == nil {
		b.lockStale = stale
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// One connection serializes writers and keeps :memory: databases coherent
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to open SQLite database %s: %w", path, err)
	}

	b.db = db
	b.path = path
	return nil
}

// Close closes the database
func (b *Backend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// Begin opens a transaction. SQLite DDL is transactional, so schema changes
// roll back together with data changes.
func (b *Backend) Begin(ctx context.Context) (backends.Tx, error) {
	if b.db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return backends.NewSQLTx(tx), nil
}

// Lock takes the per-database migration semaphore, then the lock file shared
// with other processes. In-memory databases are private to the process and
// skip the lock file.
func (b *Backend) Lock(ctx context.Context, key string, wait bool) (func(), error) {
	sem := semaphoreFor(b.path + "#" + key)

	if wait {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to acquire migration lock: %w", ctx.Err())
		}
	} else {
		select {
		case sem <- struct{}{}:
		default:
			return nil, backends.ErrMigrationInProgress
		}
	}

	var file *lockFile
	if b.path != "" && b.path != ":memory:" {
		file = newLockFile(b.path, key, b.lockStale)
		if err := acquireFile(ctx, file, wait); err != nil {
			<-sem
			return nil, err
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if file != nil {
				file.release()
			}
			<-sem
		})
	}, nil
}

func acquireFile(ctx context.Context, file *lockFile, wait bool) error {
	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := file.tryAcquire()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !wait {
			return backends.ErrMigrationInProgress
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to acquire migration lock: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// HealthCheck verifies the backend is accessible
func (b *Backend) HealthCheck(ctx context.Context) error {
	if b.db == nil {
		return fmt.Errorf("database connection not initialized")
	}
	return b.db.PingContext(ctx)
}
