package models

import (
	"time"

	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
)

// RecordStatus is the lifecycle state of a partida.
//
// There are exactly two states. "replaced" is a display label, not a state:
// an annulled record whose superseding decree is a replacement decree is
// shown as replaced, but the register stores it as annulled.
type RecordStatus string

const (
	// RecordStatusActive is the initial state of every partida.
	RecordStatusActive RecordStatus = "active"
	// RecordStatusAnnulled is reached only through a correction decree and
	// left only through that decree's deletion.
	RecordStatusAnnulled RecordStatus = "annulled"
)

// SacramentRecord is one register entry (partida).
//
// Invariants:
//   - SacramentType is valid and immutable after construction
//   - Payload carries exactly the variant matching SacramentType, with the
//     identity name fields present
//   - Status transitions: active → annulled (via correction decree) and
//     annulled → active (via decree deletion) only
//   - SupersededByRecordID is set if and only if Status is annulled
//   - Once any decree references the record, mutation goes through the
//     decree engine only
type SacramentRecord struct {
	ID            domain.RecordID      `json:"id"`
	ParishID      domain.ParishID      `json:"parish_id"`
	SacramentType domain.SacramentType `json:"sacrament_type"`
	Status        RecordStatus         `json:"status"`
	Locator       domain.Locator       `json:"locator"`
	Payload       Payload              `json:"payload"`

	// MarginalNote is a free-text annotation typed directly on the partida.
	// When present it overrides template resolution entirely.
	MarginalNote string `json:"marginal_note,omitempty"`

	// SupersededByRecordID points at the corrected partida that replaced
	// this one; set only while annulled.
	SupersededByRecordID *domain.RecordID `json:"superseded_by_record_id,omitempty"`
	// SupersedesRecordID points back at the annulled original; set only on
	// records spawned by the decree engine.
	SupersedesRecordID *domain.RecordID `json:"supersedes_record_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRecord constructs an active partida, validating all invariants.
func NewRecord(
	id domain.RecordID,
	parishID domain.ParishID,
	sacramentType domain.SacramentType,
	locator domain.Locator,
	payload Payload,
	now time.Time,
) (*SacramentRecord, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "record id is required")
	}
	if parishID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "record parish is required")
	}
	if !sacramentType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "record sacrament type is invalid")
	}
	if err := locator.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "record locator is incomplete")
	}
	if err := payload.Validate(sacramentType); err != nil {
		return nil, err
	}
	return &SacramentRecord{
		ID:            id,
		ParishID:      parishID,
		SacramentType: sacramentType,
		Status:        RecordStatusActive,
		Locator:       locator,
		Payload:       payload,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsActive reports whether the partida is in its initial, mutable state.
func (r *SacramentRecord) IsActive() bool {
	return r.Status == RecordStatusActive
}

// CanAnnul checks the active → annulled transition guard.
func (r *SacramentRecord) CanAnnul() error {
	if r.Status != RecordStatusActive {
		return dErrors.New(dErrors.CodeInvariantViolation, "only an active partida can be annulled")
	}
	return nil
}

// ApplyAnnulment transitions the partida to annulled, pointing at the
// record that supersedes it. Call CanAnnul first.
func (r *SacramentRecord) ApplyAnnulment(supersededBy domain.RecordID, now time.Time) {
	r.Status = RecordStatusAnnulled
	r.SupersededByRecordID = &supersededBy
	r.UpdatedAt = now
}

// CanRestore checks the annulled → active transition guard (the inverse of
// a correction decree).
func (r *SacramentRecord) CanRestore() error {
	if r.Status != RecordStatusAnnulled {
		return dErrors.New(dErrors.CodeInvariantViolation, "only an annulled partida can be restored")
	}
	return nil
}

// ApplyRestore returns the partida to active and clears the supersede link.
// Call CanRestore first.
func (r *SacramentRecord) ApplyRestore(now time.Time) {
	r.Status = RecordStatusActive
	r.SupersededByRecordID = nil
	r.UpdatedAt = now
}

// StatusLabel derives the display label. supersededByReplacement is true
// when the superseding decree is a replacement decree.
func (r *SacramentRecord) StatusLabel(supersededByReplacement bool) string {
	if r.Status == RecordStatusAnnulled && supersededByReplacement {
		return "replaced"
	}
	return string(r.Status)
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate stored state in place, and the decree engine snapshots pre-images
// for its rollback path.
func (r *SacramentRecord) Clone() *SacramentRecord {
	cp := *r
	cp.Payload = r.Payload.Clone()
	if r.SupersededByRecordID != nil {
		v := *r.SupersededByRecordID
		cp.SupersededByRecordID = &v
	}
	if r.SupersedesRecordID != nil {
		v := *r.SupersedesRecordID
		cp.SupersedesRecordID = &v
	}
	return &cp
}
