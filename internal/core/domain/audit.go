package domain

import "time"

// AuditOutcome records whether an audited action succeeded.
type AuditOutcome string

const (
	AuditApplied AuditOutcome = "applied"
	AuditFailed  AuditOutcome = "failed"
)

// AuditEvent is one entry in the administrative audit trail. Bulk actions
// emit one event per affected entity so the trail stays per-entity ordered.
type AuditEvent struct {
	ID         string       `json:"id"`
	ActorID    string       `json:"actor_id"`
	ActorRole  Role         `json:"actor_role"`
	EntityKind string       `json:"entity_kind"`
	EntityID   string       `json:"entity_id"`
	Action     string       `json:"action"`
	Outcome    AuditOutcome `json:"outcome"`
	Timestamp  time.Time    `json:"timestamp"`
}
