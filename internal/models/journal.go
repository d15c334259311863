package models

const (
	JournalPending  = "pending"
	JournalComplete = "complete"
)

const (
	StepSet    = "set"
	StepUpdate = "update"
)

// JournalEntry records a multi-document write before any of it is applied.
type JournalEntry struct {
	Kind             string                 `json:"kind"`
	CorrelationToken string                 `json:"correlationToken"`
	State            string                 `json:"state"`
	CreatedAt        string                 `json:"createdAt"`
	UpdatedAt        string                 `json:"updatedAt"`
	Steps            map[string]JournalStep `json:"steps"`
}

type JournalStep struct {
	Op   string `json:"op"`
	Path string `json:"path"`

	// Payload is the JSON encoded value, kept as a string so it is stored
	// as a single leaf.
	Payload string `json:"payload"`
	Done    bool   `json:"done"`
}
