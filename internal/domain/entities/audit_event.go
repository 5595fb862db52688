package entities

import "time"

// AuditEvent is emitted by the core; storing it is someone else's job.
type AuditEvent struct {
	ID         string         `json:"id"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Action     string         `json:"action"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

const (
	AuditEntityAssessment = "assessment"
	AuditEntityEstimate   = "estimate"
	AuditEntityAdditional = "additional"
	AuditEntityFRC        = "frc"
	AuditEntityPayment    = "payment"
	AuditEntityRates      = "rates"

	AuditActionStageTransition = "stage_transition"
)
