package etcd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/toolsascode/revmig/internal/backends"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"
)

// Backend implements the Backend interface for Etcd
type Backend struct {
	client  *clientv3.Client
	config  *backends.ConnectionConfig
	prefix  string
	lockTTL int
	// relative key prefixes revision statements may not write
	reserved []string
}

// NewBackend creates a new Etcd backend
func NewBackend() *Backend {
	return &Backend{prefix: "/", lockTTL: 30, reserved: []string{"revision_history/", "locks/"}}
}

// Reserve keeps revision statements away from keys under prefix, relative to
// the connection prefix. The history store reserves its table this way.
func (b *Backend) Reserve(prefix string) {
	prefix = strings.TrimPrefix(prefix, "/")
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	for _, r := range b.reserved {
		if r == prefix {
			return
		}
	}
	b.reserved = append(b.reserved, prefix)
}

// Name returns the backend name
func (b *Backend) Name() string {
	return "etcd"
}

// Client exposes the etcd client for the history store
func (b *Backend) Client() *clientv3.Client {
	return b.client
}

// Connect establishes a connection to Etcd
func (b *Backend) Connect(config *backends.ConnectionConfig) error {
	b.config = config

	// Parse endpoints
	endpoints := []string{fmt.Sprintf("%s:%s", config.Host, config.Port)}
	if config.ExtraOrDefault("endpoints", "") != "" {
		endpoints = strings.Split(config.Extra["endpoints"], ",")
		for i, ep := range endpoints {
			endpoints[i] = strings.TrimSpace(ep)
		}
	}

	// Get timeout
	timeout := 5 * time.Second
	if parsed, err := time.ParseDuration(config.ExtraOrDefault("timeout", "5s")); err == nil {
		timeout = parsed
	}

	if ttl, err := time.ParseDuration(config.ExtraOrDefault("lock_ttl", "30s")); err == nil && ttl >= time.Second {
		b.lockTTL = int(ttl.Seconds())
	}

	b.prefix = normalizePrefix(config.ExtraOrDefault("prefix", "/"), config.Schema)

	// Create etcd client
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		Username:    config.Username,
		Password:    config.Password,
		DialTimeout: timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create etcd client: %w", err)
	}

	b.client = client

	// Test connection
	if err := b.HealthCheck(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to etcd: %w", err)
	}

	return nil
}

// Close closes the Etcd connection
func (b *Backend) Close() error {
	if b.client != nil {
		return b.client.Close()
	}
	return nil
}

// Key resolves a key relative to the configured prefix
func (b *Backend) Key(key string) string {
	return b.prefix + strings.TrimPrefix(key, "/")
}

// Begin opens a buffered transaction; nothing reaches etcd until Commit
func (b *Backend) Begin(ctx context.Context) (backends.Tx, error) {
	if b.client == nil {
		return nil, fmt.Errorf("etcd client not initialized")
	}
	return &Tx{ctx: ctx, kv: b.client, key: b.Key, reserved: b.reserved}, nil
}

// Lock takes a session-backed etcd mutex under <prefix>locks/<key>. The lease
// expires if the process dies, so a crashed runner cannot hold the lock forever.
func (b *Backend) Lock(ctx context.Context, key string, wait bool) (func(), error) {
	if b.client == nil {
		return nil, fmt.Errorf("etcd client not initialized")
	}

	session, err := concurrency.NewSession(b.client, concurrency.WithTTL(b.lockTTL), concurrency.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd session: %w", err)
	}

	mutex := concurrency.NewMutex(session, b.Key("locks/"+key))
	if wait {
		err = mutex.Lock(ctx)
	} else {
		err = mutex.TryLock(ctx)
	}
	if err != nil {
		_ = session.Close()
		if err == concurrency.ErrLocked {
			return nil, backends.ErrMigrationInProgress
		}
		return nil, fmt.Errorf("failed to acquire etcd lock: %w", err)
	}

	release := func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mutex.Unlock(unlockCtx)
		_ = session.Close()
	}
	return release, nil
}

// HealthCheck verifies the backend is accessible
func (b *Backend) HealthCheck(ctx context.Context) error {
	if b.client == nil {
		return fmt.Errorf("etcd client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := b.client.Get(ctx, b.Key("health_check")); err != nil {
		return fmt.Errorf("failed to communicate with etcd: %w", err)
	}
	return nil
}

// normalizePrefix joins the connection prefix and schema into a key prefix
// ending in "/". A schema starting with "/" replaces the prefix entirely.
func normalizePrefix(prefix, schema string) string {
	if schema != "" && strings.HasPrefix(schema, "/") {
		prefix = schema
	} else if schema != "" {
		prefix = strings.TrimSuffix(prefix, "/") + "/" + schema
	}
	if prefix == "" {
		prefix = "/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}
