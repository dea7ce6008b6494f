package audit

import (
	"time"

	"chancery/pkg/domain"
)

// Action names for decree-engine audit events.
const (
	ActionCorrectionCreated  = "correction_decree.created"
	ActionCorrectionUpdated  = "correction_decree.updated"
	ActionCorrectionDeleted  = "correction_decree.deleted"
	ActionReplacementCreated = "replacement_decree.created"
	ActionReplacementUpdated = "replacement_decree.updated"
	ActionReplacementDeleted = "replacement_decree.deleted"
	ActionRecordAttached     = "replacement_decree.record_attached"
	ActionIntegrityWarning   = "integrity_warning"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Actor     string
	ParishID  domain.ParishID
	DecreeID  domain.DecreeID
	RecordID  domain.RecordID
	Action    string
	Detail    string
}
