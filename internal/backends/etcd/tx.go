package etcd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// ErrGuardFailed is returned by Commit when a guarded key changed state
// between the time the transaction was built and the time it committed
var ErrGuardFailed = errors.New("etcd transaction guard failed")

// Operation is one key-value statement
//
//	{"operation": "put", "key": "products/ESRA", "value": {"name": "Site Registry"}}
//	{"operation": "delete", "key": "products/ESRA"}
//
// A statement may also be a JSON array of operations or a bare "key=value" put.
type Operation struct {
	Operation string          `json:"operation"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
}

// Tx buffers operations and submits them as a single etcd Txn on Commit
type Tx struct {
	ctx    context.Context
	kv     clientv3.KV
	key    func(string) string
	cmps   []clientv3.Cmp
	guards []string
	ops    []clientv3.Op
	done   bool

	reserved []string
	touched  map[string]int
	stmt     int
}

// Exec parses a statement and queues its operations. The returned count is the
// number of queued operations; etcd reports nothing until commit.
func (t *Tx) Exec(ctx context.Context, statement string, args ...interface{}) (int64, error) {
	if t.done {
		return 0, fmt.Errorf("transaction already finished")
	}
	if len(args) > 0 {
		return 0, fmt.Errorf("etcd statements do not take arguments")
	}

	ops, err := ParseOperations(statement)
	if err != nil {
		return 0, err
	}
	if err := t.checkKeys(statement, ops); err != nil {
		return 0, err
	}

	for _, op := range ops {
		key := t.key(op.Key)
		t.touched[key] = t.stmt
		switch op.Operation {
		case "put":
			t.ops = append(t.ops, clientv3.OpPut(key, op.StringValue()))
		case "delete":
			t.ops = append(t.ops, clientv3.OpDelete(key))
		}
	}
	return int64(len(ops)), nil
}

// checkKeys rejects keys under a reserved prefix and keys already written in
// this transaction: etcd refuses a Txn that touches the same key twice.
func (t *Tx) checkKeys(statement string, ops []Operation) error {
	if t.touched == nil {
		t.touched = make(map[string]int)
	}
	t.stmt++

	seen := make(map[string]bool, len(ops))
	for _, op := range ops {
		rel := strings.TrimPrefix(op.Key, "/")
		for _, r := range t.reserved {
			if strings.HasPrefix(rel, r) || rel+"/" == r {
				return fmt.Errorf("statement %d (%s) writes reserved key %q under %q", t.stmt, summarize(statement), op.Key, r)
			}
		}
		key := t.key(op.Key)
		if seen[key] {
			return fmt.Errorf("statement %d (%s) touches key %q twice", t.stmt, summarize(statement), op.Key)
		}
		if prev, ok := t.touched[key]; ok {
			return fmt.Errorf("statement %d (%s) touches key %q already written by statement %d", t.stmt, summarize(statement), op.Key, prev)
		}
		seen[key] = true
	}
	return nil
}

func summarize(statement string) string {
	statement = strings.Join(strings.Fields(statement), " ")
	if len(statement) > 60 {
		return statement[:57] + "..."
	}
	return statement
}

// PutIfAbsent queues a put guarded on the key not existing yet
func (t *Tx) PutIfAbsent(key, value string) {
	full := t.key(key)
	t.cmps = append(t.cmps, clientv3.Compare(clientv3.CreateRevision(full), "=", 0))
	t.guards = append(t.guards, full+" absent")
	t.ops = append(t.ops, clientv3.OpPut(full, value))
}

// DeleteIfPresent queues a delete guarded on the key existing
func (t *Tx) DeleteIfPresent(key string) {
	full := t.key(key)
	t.cmps = append(t.cmps, clientv3.Compare(clientv3.CreateRevision(full), ">", 0))
	t.guards = append(t.guards, full+" present")
	t.ops = append(t.ops, clientv3.OpDelete(full))
}

// Commit submits every queued operation atomically
func (t *Tx) Commit() error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	t.done = true

	if len(t.ops) == 0 {
		return nil
	}

	resp, err := t.kv.Txn(t.ctx).If(t.cmps...).Then(t.ops...).Commit()
	if err != nil {
		return fmt.Errorf("failed to commit etcd transaction: %w", err)
	}
	if !resp.Succeeded {
		return fmt.Errorf("%w: expected %s", ErrGuardFailed, strings.Join(t.guards, ", "))
	}
	return nil
}

// Rollback drops the queued operations
func (t *Tx) Rollback() error {
	t.done = true
	t.ops = nil
	t.cmps = nil
	return nil
}

// StringValue returns the value as stored in etcd: JSON strings are unquoted,
// anything else is stored as its JSON text
func (o Operation) StringValue() string {
	if len(o.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(o.Value, &s); err == nil {
		return s
	}
	return string(o.Value)
}

// ParseOperations parses a statement into key-value operations
func ParseOperations(statement string) ([]Operation, error) {
	statement = strings.TrimSpace(statement)
	if statement == "" {
		return nil, nil
	}

	var ops []Operation
	switch statement[0] {
	case '[':
		if err := json.Unmarshal([]byte(statement), &ops); err != nil {
			return nil, fmt.Errorf("invalid etcd statement: %w", err)
		}
	case '{':
		var op Operation
		if err := json.Unmarshal([]byte(statement), &op); err != nil {
			return nil, fmt.Errorf("invalid etcd statement: %w", err)
		}
		ops = []Operation{op}
	default:
		parts := strings.SplitN(statement, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid etcd statement %q: expected JSON or key=value", statement)
		}
		value, _ := json.Marshal(strings.TrimSpace(parts[1]))
		ops = []Operation{{Operation: "put", Key: strings.TrimSpace(parts[0]), Value: value}}
	}

	for i := range ops {
		if ops[i].Operation == "" {
			ops[i].Operation = "put"
		}
		if ops[i].Key == "" {
			return nil, fmt.Errorf("missing key in operation %d", i+1)
		}
		if ops[i].Operation != "put" && ops[i].Operation != "delete" {
			return nil, fmt.Errorf("unsupported operation type: %s", ops[i].Operation)
		}
	}
	return ops, nil
}
