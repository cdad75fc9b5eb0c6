// Package revision defines the unit of change the engine applies: an immutable
// revision with a parent pointer and a pair of forward/inverse actions.
package revision

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/toolsascode/revmig/internal/backends"
)

// Target keywords accepted wherever a revision reference is expected
const (
	// Head refers to the newest revision of the chain
	Head = "head"
	// Base refers to the state before the root revision (nothing applied)
	Base = "base"
)

// Phase names the direction an action runs in
type Phase string

const (
	PhaseApply  Phase = "apply"
	PhaseRevert Phase = "revert"
)

// Action is an opaque unit of schema/data change executed inside a transaction
type Action interface {
	Run(ctx context.Context, tx backends.Tx) error
}

// ActionFunc adapts a plain function to Action
type ActionFunc func(ctx context.Context, tx backends.Tx) error

// Run calls f(ctx, tx)
func (f ActionFunc) Run(ctx context.Context, tx backends.Tx) error {
	return f(ctx, tx)
}

// Statements is an Action that executes each statement in order
type Statements []string

// Run executes the statements, stopping at the first failure
func (s Statements) Run(ctx context.Context, tx backends.Tx) error {
	for i, stmt := range s {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d failed: %w", i+1, err)
		}
	}
	return nil
}

// Revision is one authored schema change. Revisions are read-only once registered.
type Revision struct {
	ID          string
	Parent      string // empty for the root revision
	Description string
	CreatedAt   time.Time
	Source      string // file the revision was loaded from, if any
	Apply       Action
	Revert      Action
}

// IsRoot reports whether the revision has no parent
func (r *Revision) IsRoot() bool {
	return r.Parent == ""
}

// ActionFor returns the action for the given phase
func (r *Revision) ActionFor(phase Phase) Action {
	if phase == PhaseRevert {
		return r.Revert
	}
	return r.Apply
}

// String renders "parent -> id, description" the way history listings show it
func (r *Revision) String() string {
	parent := r.Parent
	if parent == "" {
		parent = "<base>"
	}
	if r.Description == "" {
		return fmt.Sprintf("%s -> %s", parent, r.ID)
	}
	return fmt.Sprintf("%s -> %s, %s", parent, r.ID, r.Description)
}
