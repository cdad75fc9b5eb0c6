package etcd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/toolsascode/revmig/internal/backends"
	"github.com/toolsascode/revmig/internal/state"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// guardedTx is the part of the etcd transaction the tracker needs
type guardedTx interface {
	PutIfAbsent(key, value string)
	DeleteIfPresent(key string)
}

// Tracker implements HistoryStore for etcd as one key per applied revision
// under <prefix><table>/<id>, valued with the applied_at timestamp
type Tracker struct {
	kv    clientv3.KV
	key   func(string) string
	table string
}

// NewTracker creates an etcd history store. key resolves a relative key against
// the connection prefix (the etcd backend's Key method).
func NewTracker(kv clientv3.KV, key func(string) string, table string) *Tracker {
	if table == "" {
		table = state.DefaultTable
	}
	return &Tracker{kv: kv, key: key, table: table}
}

func (t *Tracker) recordKey(id string) string {
	return t.table + "/" + id
}

// Initialize is a no-op: the key prefix needs no setup
func (t *Tracker) Initialize(ctx context.Context) error {
	return nil
}

// Applied returns the applied set ordered by applied_at, then id
func (t *Tracker) Applied(ctx context.Context) ([]*state.Record, error) {
	prefix := t.key(t.table + "/")
	resp, err := t.kv.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.table, err)
	}

	records := make([]*state.Record, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		id := strings.TrimPrefix(string(kv.Key), prefix)
		at, err := time.Parse(time.RFC3339Nano, string(kv.Value))
		if err != nil {
			return nil, fmt.Errorf("invalid applied_at %q for revision %s: %w", kv.Value, id, err)
		}
		records = append(records, &state.Record{ID: id, AppliedAt: at})
	}
	state.SortRecords(records)
	return records, nil
}

func (t *Tracker) exists(ctx context.Context, id string) (bool, error) {
	resp, err := t.kv.Get(ctx, t.key(t.recordKey(id)), clientv3.WithCountOnly())
	if err != nil {
		return false, fmt.Errorf("failed to look up revision %s: %w", id, err)
	}
	return resp.Count > 0, nil
}

// RecordApplied queues a guarded put on tx. The guard makes the commit fail if
// another writer recorded the id in the meantime.
func (t *Tracker) RecordApplied(ctx context.Context, tx backends.Tx, id string, appliedAt time.Time) error {
	gtx, ok := tx.(guardedTx)
	if !ok {
		return fmt.Errorf("etcd history store requires an etcd transaction, got %T", tx)
	}

	found, err := t.exists(ctx, id)
	if err != nil {
		return err
	}
	if found {
		return &state.DuplicateApplicationError{ID: id}
	}

	gtx.PutIfAbsent(t.recordKey(id), appliedAt.UTC().Format(time.RFC3339Nano))
	return nil
}

// RecordReverted queues a guarded delete on tx
func (t *Tracker) RecordReverted(ctx context.Context, tx backends.Tx, id string) error {
	gtx, ok := tx.(guardedTx)
	if !ok {
		return fmt.Errorf("etcd history store requires an etcd transaction, got %T", tx)
	}

	found, err := t.exists(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return &state.NotAppliedError{ID: id}
	}

	gtx.DeleteIfPresent(t.recordKey(id))
	return nil
}
