package models

type AuditLog struct {
	Action string `json:"action"`
	Entity string `json:"entity"`
	Actor  string `json:"actor"`
	Path   string `json:"path,omitempty"`

	// Metadata holds the JSON encoding of the event details.
	Metadata  string `json:"metadata,omitempty"`
	Timestamp string `json:"timestamp"`
}
