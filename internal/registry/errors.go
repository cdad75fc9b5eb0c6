package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRevisionNotFound is returned when a reference matches no known revision
var ErrRevisionNotFound = errors.New("revision not found")

// Kinds of revision graph integrity violations
const (
	KindEmptyID       = "empty_id"
	KindReservedID    = "reserved_id"
	KindDuplicateID   = "duplicate_id"
	KindUnknownParent = "unknown_parent"
	KindCycle         = "cycle"
	KindMultipleRoots = "multiple_roots"
	KindMultipleHeads = "multiple_heads"
	KindNoRoot        = "no_root"
)

// GraphIntegrityError reports a malformed revision set. The engine refuses to
// run against a graph that fails validation.
type GraphIntegrityError struct {
	Kind      string
	Revisions []string
	Message   string
}

func newGraphError(kind string, revisions []string, format string, args ...interface{}) *GraphIntegrityError {
	return &GraphIntegrityError{
		Kind:      kind,
		Revisions: revisions,
		Message:   fmt.Sprintf(format, args...),
	}
}

func (e *GraphIntegrityError) Error() string {
	return fmt.Sprintf("revision graph integrity error (%s): %s", e.Kind, e.Message)
}

// Code returns the stable error code used by the API layers
func (e *GraphIntegrityError) Code() string {
	return "GRAPH_INTEGRITY"
}

// AmbiguousRevisionError is returned when a partial id matches several revisions
type AmbiguousRevisionError struct {
	Ref     string
	Matches []string
}

func (e *AmbiguousRevisionError) Error() string {
	return fmt.Sprintf("revision reference %q is ambiguous: matches %s", e.Ref, strings.Join(e.Matches, ", "))
}

// Code returns the stable error code used by the API layers
func (e *AmbiguousRevisionError) Code() string {
	return "AMBIGUOUS_REVISION"
}
