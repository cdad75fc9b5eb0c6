package etcd

import (
	"context"
	"errors"
	"strings"
	"testing"

	clientv3 "go.etcd.io/etcd/client/v3"
)

type fakeTxn struct {
	kv *fakeKV
}

func (f *fakeTxn) If(cs ...clientv3.Cmp) clientv3.Txn {
	f.kv.cmps = append(f.kv.cmps, cs...)
	return f
}

func (f *fakeTxn) Then(ops ...clientv3.Op) clientv3.Txn {
	f.kv.ops = append(f.kv.ops, ops...)
	return f
}

func (f *fakeTxn) Else(ops ...clientv3.Op) clientv3.Txn {
	return f
}

func (f *fakeTxn) Commit() (*clientv3.TxnResponse, error) {
	f.kv.commits++
	return &clientv3.TxnResponse{Succeeded: !f.kv.failGuards}, nil
}

type fakeKV struct {
	clientv3.KV
	cmps       []clientv3.Cmp
	ops        []clientv3.Op
	commits    int
	failGuards bool
}

func (f *fakeKV) Txn(ctx context.Context) clientv3.Txn {
	return &fakeTxn{kv: f}
}

func newTestTx(kv *fakeKV) *Tx {
	return &Tx{
		ctx:      context.Background(),
		kv:       kv,
		key:      func(k string) string { return "/revmig/" + k },
		reserved: NewBackend().reserved,
	}
}

func TestParseOperations(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		wantOps   int
		wantErr   bool
		wantValue string
	}{
		{name: "key value", statement: "products/ESRA=Site Registry", wantOps: 1, wantValue: "Site Registry"},
		{name: "object", statement: `{"key": "products/ESRA", "value": {"name": "Site Registry"}}`, wantOps: 1, wantValue: `{"name": "Site Registry"}`},
		{name: "array", statement: `[{"operation": "put", "key": "a", "value": "1"}, {"operation": "delete", "key": "b"}]`, wantOps: 2, wantValue: "1"},
		{name: "blank", statement: "  ", wantOps: 0},
		{name: "missing key", statement: `{"value": "x"}`, wantErr: true},
		{name: "bad operation", statement: `{"operation": "compact", "key": "a"}`, wantErr: true},
		{name: "garbage", statement: "not a statement", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := ParseOperations(tt.statement)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOperations() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(ops) != tt.wantOps {
				t.Fatalf("got %d operations, want %d", len(ops), tt.wantOps)
			}
			if tt.wantOps > 0 && ops[0].StringValue() != tt.wantValue {
				t.Errorf("value = %q, want %q", ops[0].StringValue(), tt.wantValue)
			}
		})
	}
}

func TestTx_CommitSubmitsSingleTxn(t *testing.T) {
	kv := &fakeKV{}
	tx := newTestTx(kv)

	n, err := tx.Exec(context.Background(), `[{"key": "a", "value": "1"}, {"operation": "delete", "key": "b"}]`)
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Exec() = %d, want 2", n)
	}
	tx.PutIfAbsent("history/3f79f6dcc58d", "2024-01-01T00:00:00Z")

	if kv.commits != 0 {
		t.Fatal("nothing must reach etcd before Commit")
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if kv.commits != 1 || len(kv.ops) != 3 || len(kv.cmps) != 1 {
		t.Errorf("commits=%d ops=%d cmps=%d, want 1/3/1", kv.commits, len(kv.ops), len(kv.cmps))
	}

	if _, err := tx.Exec(context.Background(), "a=1"); err == nil {
		t.Error("Exec() after Commit should fail")
	}
}

func TestTx_GuardFailure(t *testing.T) {
	kv := &fakeKV{failGuards: true}
	tx := newTestTx(kv)
	tx.DeleteIfPresent("history/3f79f6dcc58d")

	err := tx.Commit()
	if !errors.Is(err, ErrGuardFailed) {
		t.Fatalf("Commit() error = %v, want ErrGuardFailed", err)
	}
}

func TestTx_RollbackSubmitsNothing(t *testing.T) {
	kv := &fakeKV{}
	tx := newTestTx(kv)
	if _, err := tx.Exec(context.Background(), "a=1"); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if kv.commits != 0 {
		t.Error("rolled back transaction reached etcd")
	}
}

func TestTx_ExecRejectsArgs(t *testing.T) {
	tx := newTestTx(&fakeKV{})
	if _, err := tx.Exec(context.Background(), "a=?", 1); err == nil {
		t.Error("expected error for statement arguments")
	}
}

func TestTx_ExecRejectsDuplicateKeys(t *testing.T) {
	tests := []struct {
		name       string
		statements []string
		wantErr    string
	}{
		{
			name:       "same statement",
			statements: []string{`[{"key": "a", "value": "1"}, {"operation": "delete", "key": "a"}]`},
			wantErr:    `statement 1 ([{"key": "a", "value": "1"}, {"operation": "delete", "key": "a"}]) touches key "a" twice`,
		},
		{
			name:       "earlier statement",
			statements: []string{"a=1", "b=2", `{"operation": "delete", "key": "a"}`},
			wantErr:    `statement 3 ({"operation": "delete", "key": "a"}) touches key "a" already written by statement 1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := newTestTx(&fakeKV{})
			var err error
			for _, stmt := range tt.statements {
				if _, err = tx.Exec(context.Background(), stmt); err != nil {
					break
				}
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("Exec() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestTx_ExecRejectsReservedKeys(t *testing.T) {
	b := NewBackend()
	b.Reserve("applied")

	tests := []struct {
		name      string
		statement string
		wantErr   string
	}{
		{name: "history", statement: "revision_history/3f79f6dcc58d=now", wantErr: `statement 1 (revision_history/3f79f6dcc58d=now) writes reserved key "revision_history/3f79f6dcc58d" under "revision_history/"`},
		{name: "locks", statement: `{"operation": "delete", "key": "/locks/revmig"}`, wantErr: `writes reserved key "/locks/revmig" under "locks/"`},
		{name: "configured table", statement: "applied/a=1", wantErr: `under "applied/"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := &fakeKV{}
			tx := &Tx{ctx: context.Background(), kv: kv, key: b.Key, reserved: b.reserved}
			_, err := tx.Exec(context.Background(), tt.statement)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Exec() error = %v, want it to contain %q", err, tt.wantErr)
			}
			if err := tx.Commit(); err != nil {
				t.Fatalf("Commit() error = %v", err)
			}
			if kv.commits != 0 {
				t.Error("rejected statement reached etcd")
			}
		})
	}

	tx := &Tx{ctx: context.Background(), kv: &fakeKV{}, key: b.Key, reserved: b.reserved}
	if _, err := tx.Exec(context.Background(), "revision_historian=ok"); err != nil {
		t.Errorf("Exec() error = %v for a key that only shares a name prefix", err)
	}
}

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		prefix, schema, want string
	}{
		{"/", "", "/"},
		{"", "", "/"},
		{"/revmig", "", "/revmig/"},
		{"/revmig/", "tenant", "/revmig/tenant/"},
		{"/revmig", "/absolute", "/absolute/"},
	}
	for _, tt := range tests {
		if got := normalizePrefix(tt.prefix, tt.schema); got != tt.want {
			t.Errorf("normalizePrefix(%q, %q) = %q, want %q", tt.prefix, tt.schema, got, tt.want)
		}
	}
}
