package dto

// RevisionItem represents one revision of the chain
type RevisionItem struct {
	Revision    string `json:"revision"`
	Parent      string `json:"parent,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	Applied     bool   `json:"applied"`
	AppliedAt   string `json:"applied_at,omitempty"`
	IsCurrent   bool   `json:"is_current"`
	IsHead      bool   `json:"is_head"`
}

// HistoryResponse lists the chain newest first
type HistoryResponse struct {
	Items   []RevisionItem `json:"items"`
	Total   int            `json:"total"`
	Current string         `json:"current"`
	Head    string         `json:"head"`
}

// CurrentResponse reports the current tip
type CurrentResponse struct {
	Current  string `json:"current"`
	Head     string `json:"head"`
	UpToDate bool   `json:"up_to_date"`
}

// VerifyResponse reports the result of a drift check
type VerifyResponse struct {
	OK        bool     `json:"ok"`
	Kind      string   `json:"kind,omitempty"`
	Revisions []string `json:"revisions,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// ReloadResponse reports a reload of the revision files
type ReloadResponse struct {
	Total int    `json:"total"`
	Head  string `json:"head"`
}
