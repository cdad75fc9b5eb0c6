package executor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/toolsascode/revmig/internal/registry"
	"github.com/toolsascode/revmig/internal/state"
)

// verifyDrift checks that the applied set is exactly the chain prefix ending at
// the tip, and that applied_at never decreases along the chain. Equal
// timestamps are not drift.
func verifyDrift(records []*state.Record, chain *registry.Chain) error {
	var unknown []string
	applied := make(map[string]time.Time, len(records))
	for _, r := range records {
		if _, ok := chain.Get(r.ID); !ok {
			unknown = append(unknown, r.ID)
			continue
		}
		applied[r.ID] = r.AppliedAt
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &DriftDetectedError{
			Kind:      DriftUnknownRevision,
			Revisions: unknown,
			Message:   fmt.Sprintf("history contains revisions with no known definition: %s", strings.Join(unknown, ", ")),
		}
	}

	tip := state.TipOf(records, chain)
	path, err := chain.PathTo(tip)
	if err != nil {
		return err
	}

	var missing []string
	for _, rev := range path {
		if _, ok := applied[rev.ID]; !ok {
			missing = append(missing, rev.ID)
		}
	}
	if len(missing) > 0 {
		return &DriftDetectedError{
			Kind:      DriftNotPrefix,
			Revisions: missing,
			Message:   fmt.Sprintf("tip %s is recorded but its ancestors %s are not", tip, strings.Join(missing, ", ")),
		}
	}

	var latest time.Time
	var latestID string
	for _, rev := range path {
		at := applied[rev.ID]
		if at.Before(latest) {
			return &DriftDetectedError{
				Kind:      DriftOrderMismatch,
				Revisions: []string{latestID, rev.ID},
				Message: fmt.Sprintf("revision %s was recorded at %s, before its ancestor %s (%s)",
					rev.ID, at.Format(time.RFC3339Nano), latestID, latest.Format(time.RFC3339Nano)),
			}
		}
		latest, latestID = at, rev.ID
	}

	return nil
}
