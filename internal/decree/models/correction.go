package models

import (
	"time"

	recordmodels "chancery/internal/record/models"
	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
)

// OriginalRecordSnapshot is the immutable pre-annulment image of the partida
// a correction decree acted on. The full record copy is what the inverse
// delete writes back, so restoration is exact rather than reconstructed.
type OriginalRecordSnapshot struct {
	RecordID    domain.RecordID              `json:"record_id"`
	Locator     domain.Locator               `json:"locator"`
	SubjectName string                       `json:"subject_name"`
	Record      recordmodels.SacramentRecord `json:"record"`
}

// CorrectionDecree annuls one partida and spawns its corrected successor.
//
// Invariants:
//   - exactly one NewRecordID, set at creation and never reassigned
//   - the original stays annulled for as long as the decree exists
//   - the snapshot is captured at creation and never mutated
type CorrectionDecree struct {
	ID           domain.DecreeID        `json:"id"`
	ParishID     domain.ParishID        `json:"parish_id"`
	DecreeNumber string                 `json:"decree_number"`
	DecreeDate   time.Time              `json:"decree_date"`
	ConceptID    domain.ConceptID       `json:"concept_id"`
	Original     OriginalRecordSnapshot `json:"original"`
	NewRecordID  domain.RecordID        `json:"new_record_id"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// NewCorrectionDecree validates and constructs a correction decree. The
// snapshot is deep-copied so later record mutations cannot reach into it.
func NewCorrectionDecree(
	id domain.DecreeID,
	parishID domain.ParishID,
	decreeNumber string,
	decreeDate time.Time,
	conceptID domain.ConceptID,
	original *recordmodels.SacramentRecord,
	newRecordID domain.RecordID,
	now time.Time,
) (*CorrectionDecree, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "decree id is required")
	}
	if parishID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "decree parish is required")
	}
	if decreeNumber == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "decree number is required")
	}
	if conceptID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "decree concept is required")
	}
	if original == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "original record snapshot is required")
	}
	if newRecordID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "corrected record id is required")
	}

	return &CorrectionDecree{
		ID:           id,
		ParishID:     parishID,
		DecreeNumber: decreeNumber,
		DecreeDate:   decreeDate,
		ConceptID:    conceptID,
		Original: OriginalRecordSnapshot{
			RecordID:    original.ID,
			Locator:     original.Locator,
			SubjectName: original.Payload.SubjectName(),
			Record:      *original.Clone(),
		},
		NewRecordID: newRecordID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Clone returns a deep copy.
func (d *CorrectionDecree) Clone() *CorrectionDecree {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Original.Record = *d.Original.Record.Clone()
	return &cp
}

// DateText renders the decree date for marginal notes; empty when unset.
func (d *CorrectionDecree) DateText() string {
	if d.DecreeDate.IsZero() {
		return ""
	}
	return d.DecreeDate.Format("2006-01-02")
}
