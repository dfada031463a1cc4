package models

// AuditLog records mutating operations (flow submissions, asset and debt
// edits) for later review. Writes are best-effort and never block the
// operation being logged.
type AuditLog struct {
	Base
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `gorm:"type:uuid" json:"resource_id"`
	Changes      string `json:"changes,omitempty"`
}
