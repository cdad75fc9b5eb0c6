package executor

import (
	"time"

	"github.com/toolsascode/revmig/internal/revision"
)

// Direction of a migrate call
type Direction string

const (
	DirectionNone      Direction = "none"
	DirectionUpgrade   Direction = "upgrade"
	DirectionDowngrade Direction = "downgrade"
)

// StepStatus is the outcome of one revision within a migrate call
type StepStatus string

const (
	StepApplied  StepStatus = "applied"
	StepReverted StepStatus = "reverted"
	StepFailed   StepStatus = "failed"
	StepPlanned  StepStatus = "planned"
)

// Step is one revision processed (or planned) by a migrate call
type Step struct {
	Revision    string         `json:"revision"`
	Description string         `json:"description,omitempty"`
	Phase       revision.Phase `json:"phase"`
	Status      StepStatus     `json:"status"`
	Duration    time.Duration  `json:"duration"`
	Error       string         `json:"error,omitempty"`
}

// Report describes the outcome of a migrate call. Processed lists the
// revisions committed (or planned, on a dry run) in execution order; the
// revision that failed, if any, is reported separately in Failed.
type Report struct {
	Direction Direction `json:"direction"`
	Target    string    `json:"target"`
	From      string    `json:"from"`
	Tip       string    `json:"tip"`
	Processed []Step    `json:"processed"`
	Failed    *Step     `json:"failed,omitempty"`
	Success   bool      `json:"success"`
	DryRun    bool      `json:"dry_run,omitempty"`
	Queued    bool      `json:"queued,omitempty"`
	JobID     string    `json:"job_id,omitempty"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
}

// ProcessedIDs returns the revision ids of Processed in order
func (r *Report) ProcessedIDs() []string {
	ids := make([]string, 0, len(r.Processed))
	for _, step := range r.Processed {
		ids = append(ids, step.Revision)
	}
	return ids
}

// HistoryEntry is one revision of the chain annotated with its applied state
type HistoryEntry struct {
	Revision    string     `json:"revision"`
	Parent      string     `json:"parent,omitempty"`
	Description string     `json:"description,omitempty"`
	Source      string     `json:"source,omitempty"`
	Applied     bool       `json:"applied"`
	AppliedAt   *time.Time `json:"applied_at,omitempty"`
	IsCurrent   bool       `json:"is_current"`
	IsHead      bool       `json:"is_head"`
}
