package migrations

import (
	"github.com/toolsascode/revmig/internal/backends"
	"github.com/toolsascode/revmig/internal/revision"
)

// Revision is a public alias for revision.Revision
type Revision = revision.Revision

// Action is a public alias for revision.Action
type Action = revision.Action

// ActionFunc is a public alias for revision.ActionFunc
type ActionFunc = revision.ActionFunc

// Statements is a public alias for revision.Statements
type Statements = revision.Statements

// Tx is the transaction an action runs in
type Tx = backends.Tx

// Target keywords
const (
	Head = revision.Head
	Base = revision.Base
)
