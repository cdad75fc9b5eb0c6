package etcd

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.etcd.io/etcd/api/v3/mvccpb"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/toolsascode/revmig/internal/state"
)

// memKV serves Get from a map; only prefix and count-only lookups are used
type memKV struct {
	clientv3.KV
	data map[string]string
}

func (m *memKV) Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error) {
	op := clientv3.OpGet(key, opts...)
	prefix := len(op.RangeBytes()) > 0

	resp := &clientv3.GetResponse{}
	for k, v := range m.data {
		if k == key || (prefix && strings.HasPrefix(k, key)) {
			resp.Kvs = append(resp.Kvs, &mvccpb.KeyValue{Key: []byte(k), Value: []byte(v)})
		}
	}
	resp.Count = int64(len(resp.Kvs))
	if op.IsCountOnly() {
		resp.Kvs = nil
	}
	return resp, nil
}

type queuedTx struct {
	puts    map[string]string
	deletes []string
}

func (q *queuedTx) Exec(ctx context.Context, statement string, args ...interface{}) (int64, error) {
	return 0, nil
}
func (q *queuedTx) Commit() error   { return nil }
func (q *queuedTx) Rollback() error { return nil }
func (q *queuedTx) PutIfAbsent(key, value string) {
	if q.puts == nil {
		q.puts = make(map[string]string)
	}
	q.puts[key] = value
}
func (q *queuedTx) DeleteIfPresent(key string) {
	q.deletes = append(q.deletes, key)
}

type plainTx struct{}

func (plainTx) Exec(ctx context.Context, statement string, args ...interface{}) (int64, error) {
	return 0, nil
}
func (plainTx) Commit() error   { return nil }
func (plainTx) Rollback() error { return nil }

func prefixed(k string) string { return "/revmig/" + k }

func TestTracker_Applied(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	kv := &memKV{data: map[string]string{
		"/revmig/revision_history/b": now.Add(time.Second).Format(time.RFC3339Nano),
		"/revmig/revision_history/a": now.Format(time.RFC3339Nano),
		"/revmig/other/key":          "x",
	}}

	records, err := NewTracker(kv, prefixed, "").Applied(context.Background())
	if err != nil {
		t.Fatalf("Applied() error = %v", err)
	}
	if len(records) != 2 || records[0].ID != "a" || records[1].ID != "b" {
		t.Fatalf("Applied() = %+v", records)
	}
}

func TestTracker_RecordApplied(t *testing.T) {
	kv := &memKV{data: map[string]string{}}
	tracker := NewTracker(kv, prefixed, "")
	tx := &queuedTx{}

	if err := tracker.RecordApplied(context.Background(), tx, "a", time.Now()); err != nil {
		t.Fatalf("RecordApplied() error = %v", err)
	}
	if _, ok := tx.puts["revision_history/a"]; !ok {
		t.Errorf("expected guarded put for revision_history/a, got %v", tx.puts)
	}

	kv.data["/revmig/revision_history/a"] = time.Now().Format(time.RFC3339Nano)
	err := tracker.RecordApplied(context.Background(), &queuedTx{}, "a", time.Now())
	var dup *state.DuplicateApplicationError
	if !errors.As(err, &dup) {
		t.Errorf("RecordApplied() error = %v, want DuplicateApplicationError", err)
	}
}

func TestTracker_RecordReverted(t *testing.T) {
	kv := &memKV{data: map[string]string{"/revmig/revision_history/a": time.Now().Format(time.RFC3339Nano)}}
	tracker := NewTracker(kv, prefixed, "")

	tx := &queuedTx{}
	if err := tracker.RecordReverted(context.Background(), tx, "a"); err != nil {
		t.Fatalf("RecordReverted() error = %v", err)
	}
	if len(tx.deletes) != 1 || tx.deletes[0] != "revision_history/a" {
		t.Errorf("deletes = %v", tx.deletes)
	}

	err := tracker.RecordReverted(context.Background(), &queuedTx{}, "ghost")
	var notApplied *state.NotAppliedError
	if !errors.As(err, &notApplied) {
		t.Errorf("RecordReverted() error = %v, want NotAppliedError", err)
	}
}

func TestTracker_RequiresEtcdTx(t *testing.T) {
	tracker := NewTracker(&memKV{data: map[string]string{}}, prefixed, "")
	if err := tracker.RecordApplied(context.Background(), plainTx{}, "a", time.Now()); err == nil {
		t.Error("expected error for non-etcd transaction")
	}
}
