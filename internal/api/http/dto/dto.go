package dto

// MigrateRequest represents an upgrade or downgrade request
type MigrateRequest struct {
	Target string `json:"target"`  // head, base, full or partial id, +N/-N; defaults per endpoint
	DryRun bool   `json:"dry_run"` // Optional, default false
}

// StepResponse is one revision processed by a migrate call
type StepResponse struct {
	Revision    string `json:"revision"`
	Description string `json:"description,omitempty"`
	Phase       string `json:"phase"`
	Status      string `json:"status"`
	DurationMS  int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
}

// MigrateResponse represents a migrate response
type MigrateResponse struct {
	Success   bool           `json:"success"`
	Direction string         `json:"direction"`
	Target    string         `json:"target"`
	From      string         `json:"from"`
	Tip       string         `json:"tip"`
	Processed []StepResponse `json:"processed"`
	Failed    *StepResponse  `json:"failed,omitempty"`
	DryRun    bool           `json:"dry_run,omitempty"`
	Queued    bool           `json:"queued,omitempty"`
	JobID     string         `json:"job_id,omitempty"`
	Error     *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
