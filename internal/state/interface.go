package state

import (
	"context"
	"sort"
	"time"

	"github.com/toolsascode/revmig/internal/backends"
	"github.com/toolsascode/revmig/internal/registry"
)

// DefaultTable is the name of the history table (or etcd key prefix)
const DefaultTable = "revision_history"

// Record is one applied revision
type Record struct {
	ID        string
	AppliedAt time.Time
}

// HistoryStore is the persisted record, inside the target database, of which
// revisions are applied. Mutations run through the caller's transaction so the
// record commits or rolls back together with the revision's action.
type HistoryStore interface {
	// Initialize creates the history table if needed
	Initialize(ctx context.Context) error

	// Applied returns the applied set ordered by applied_at, then id
	Applied(ctx context.Context) ([]*Record, error)

	// RecordApplied adds a record; DuplicateApplicationError if id is already recorded
	RecordApplied(ctx context.Context, tx backends.Tx, id string, appliedAt time.Time) error

	// RecordReverted removes a record; NotAppliedError if id is not recorded
	RecordReverted(ctx context.Context, tx backends.Tx, id string) error
}

// CurrentTip returns the latest applied revision by chain position, not by
// insertion order. Ids unknown to the chain are ignored here; drift
// verification reports them. An empty result means nothing is applied.
func CurrentTip(ctx context.Context, store HistoryStore, chain *registry.Chain) (string, error) {
	records, err := store.Applied(ctx)
	if err != nil {
		return "", err
	}
	return TipOf(records, chain), nil
}

// TipOf picks the applied revision with the highest chain position
func TipOf(records []*Record, chain *registry.Chain) string {
	tip, best := "", -1
	for _, r := range records {
		if _, ok := chain.Get(r.ID); !ok {
			continue
		}
		if pos, err := chain.Position(r.ID); err == nil && pos > best {
			tip, best = r.ID, pos
		}
	}
	return tip
}

// SortRecords orders records by applied_at, then id
func SortRecords(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].AppliedAt.Equal(records[j].AppliedAt) {
			return records[i].AppliedAt.Before(records[j].AppliedAt)
		}
		return records[i].ID < records[j].ID
	})
}
