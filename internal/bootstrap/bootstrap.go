// Package bootstrap builds the engine components (backend, history store,
// revision loader and executor) from configuration. The server, worker and
// CLI all start through it.
package bootstrap

import (
	"fmt"

	"github.com/toolsascode/revmig/internal/backends"
	"github.com/toolsascode/revmig/internal/backends/etcd"
	"github.com/toolsascode/revmig/internal/backends/postgresql"
	"github.com/toolsascode/revmig/internal/backends/sqlite"
	"github.com/toolsascode/revmig/internal/config"
	"github.com/toolsascode/revmig/internal/executor"
	"github.com/toolsascode/revmig/internal/logger"
	"github.com/toolsascode/revmig/internal/registry"
	"github.com/toolsascode/revmig/internal/state"
	stateetcd "github.com/toolsascode/revmig/internal/state/etcd"
	statepg "github.com/toolsascode/revmig/internal/state/postgresql"
	statesqlite "github.com/toolsascode/revmig/internal/state/sqlite"
)

// Runtime holds the engine components built from a Config
type Runtime struct {
	Config   *config.Config
	Backend  backends.Backend
	Store    state.HistoryStore
	Loader   *executor.Loader
	Executor *executor.Executor
}

// NewBackend returns an unconnected backend by name
func NewBackend(name string) (backends.Backend, error) {
	switch name {
	case "postgresql", "postgres":
		return postgresql.NewBackend(), nil
	case "sqlite", "sqlite3":
		return sqlite.NewBackend(), nil
	case "etcd":
		return etcd.NewBackend(), nil
	}
	return nil, fmt.Errorf("unsupported backend %q (supported: postgresql, sqlite, etcd)", name)
}

// NewHistoryStore returns the history store that lives inside a connected backend
func NewHistoryStore(b backends.Backend, cfg *config.Config) (state.HistoryStore, error) {
	switch b := b.(type) {
	case *postgresql.Backend:
		return statepg.NewTracker(b.DB(), cfg.Database.Schema, cfg.History.Table), nil
	case *sqlite.Backend:
		return statesqlite.NewTracker(b.DB(), cfg.History.Table), nil
	case *etcd.Backend:
		if cfg.History.Table != "" {
			b.Reserve(cfg.History.Table)
		}
		return stateetcd.NewTracker(b.Client(), b.Key, cfg.History.Table), nil
	}
	return nil, fmt.Errorf("backend %s has no history store", b.Name())
}

// Open connects to the configured database and loads the revisions. Revisions
// registered in base are merged with the revision files.
func Open(cfg *config.Config, base registry.Registry) (*Runtime, error) {
	backend, err := NewBackend(cfg.Database.Backend)
	if err != nil {
		return nil, err
	}
	if err := backend.Connect(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Database.Backend, err)
	}

	store, err := NewHistoryStore(backend, cfg)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	loader := executor.NewLoader(cfg.Revisions.Dir, base)
	reg, err := loader.Load()
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to load revisions: %w", err)
	}

	exec := executor.NewExecutor(reg, store, backend, executor.Options{
		Timeout:  cfg.Runner.Timeout,
		FailFast: cfg.FailFast(),
		LockKey:  cfg.Runner.LockKey,
	})

	logger.Infof("Connected to %s, %d revision(s) loaded", backend.Name(), len(reg.GetAll()))
	return &Runtime{
		Config:   cfg,
		Backend:  backend,
		Store:    store,
		Loader:   loader,
		Executor: exec,
	}, nil
}

// Close stops the revision watcher and closes the backend
func (r *Runtime) Close() error {
	r.Loader.StopWatching()
	return r.Backend.Close()
}
