package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/toolsascode/revmig/internal/backends"
	"github.com/toolsascode/revmig/internal/registry"
	"github.com/toolsascode/revmig/internal/revision"
)

// Kinds of drift between persisted history and the known revisions
const (
	DriftUnknownRevision = "unknown_revision"
	DriftNotPrefix       = "not_prefix"
	DriftOrderMismatch   = "order_mismatch"
)

// DriftDetectedError reports that persisted history disagrees with the loaded
// revisions. It is never resolved automatically.
type DriftDetectedError struct {
	Kind      string
	Revisions []string
	Message   string
}

func (e *DriftDetectedError) Error() string {
	return fmt.Sprintf("drift detected (%s): %s", e.Kind, e.Message)
}

// Code returns the stable error code used by the API layers
func (e *DriftDetectedError) Code() string {
	return "DRIFT_DETECTED"
}

// ActionExecutionError reports a failed apply or revert. The revision's
// transaction was rolled back; revisions before it in the batch stay committed.
type ActionExecutionError struct {
	Revision string
	Phase    revision.Phase
	Err      error
}

func (e *ActionExecutionError) Error() string {
	return fmt.Sprintf("revision %s failed during %s: %v", e.Revision, e.Phase, e.Err)
}

func (e *ActionExecutionError) Unwrap() error {
	return e.Err
}

// Code returns the stable error code used by the API layers
func (e *ActionExecutionError) Code() string {
	return "ACTION_FAILED"
}

// TimeoutError reports that the call deadline passed. Any in-flight
// transaction was rolled back before it was returned.
type TimeoutError struct {
	Revision string // empty when the deadline passed outside a revision (e.g. waiting for the lock)
	Phase    string
	Timeout  time.Duration
	Err      error
}

func (e *TimeoutError) Error() string {
	var b strings.Builder
	b.WriteString("migration timed out")
	if e.Timeout > 0 {
		fmt.Fprintf(&b, " after %s", e.Timeout)
	}
	if e.Revision != "" {
		fmt.Fprintf(&b, " during %s of revision %s", e.Phase, e.Revision)
	} else if e.Phase != "" {
		fmt.Fprintf(&b, " during %s", e.Phase)
	}
	return b.String()
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Code returns the stable error code used by the API layers
func (e *TimeoutError) Code() string {
	return "TIMEOUT"
}

// DirectionError is returned when upgrade is asked to move backward or
// downgrade to move forward
type DirectionError struct {
	Requested Direction
	From      string
	Target    string
}

func (e *DirectionError) Error() string {
	return fmt.Sprintf("%s target %s is not reachable from %s in that direction", e.Requested, displayID(e.Target), displayID(e.From))
}

// Code returns the stable error code used by the API layers
func (e *DirectionError) Code() string {
	return "INVALID_DIRECTION"
}

func displayID(id string) string {
	if id == "" {
		return revision.Base
	}
	return id
}

// ErrorCode maps an error to the stable code the API layers return
func ErrorCode(err error) string {
	var coded interface{ Code() string }
	switch {
	case err == nil:
		return ""
	case errors.Is(err, backends.ErrMigrationInProgress):
		return "MIGRATION_IN_PROGRESS"
	case errors.Is(err, registry.ErrRevisionNotFound):
		return "REVISION_NOT_FOUND"
	case errors.As(err, &coded):
		return coded.Code()
	case errors.Is(err, context.Canceled):
		return "CANCELLED"
	}
	return "INTERNAL"
}
