package models

import (
	"strings"
	"time"

	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
)

// ReplacementStatus tracks the two-step replacement process: the decree is
// drafted first, then finalized when the reconstructed partida is attached.
type ReplacementStatus string

const (
	ReplacementStatusDraft     ReplacementStatus = "draft"
	ReplacementStatusFinalized ReplacementStatus = "finalized"
)

// ReplacementCause is why the original book entry needs reconstruction.
type ReplacementCause string

const (
	CausePerdida     ReplacementCause = "PERDIDA"
	CauseDeterioro   ReplacementCause = "DETERIORO"
	CauseDestruccion ReplacementCause = "DESTRUCCION"
)

func ParseReplacementCause(raw string) (ReplacementCause, error) {
	switch ReplacementCause(strings.ToUpper(strings.TrimSpace(raw))) {
	case CausePerdida:
		return CausePerdida, nil
	case CauseDeterioro:
		return CauseDeterioro, nil
	case CauseDestruccion:
		return CauseDestruccion, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "unknown replacement cause: "+raw)
	}
}

// ReplacementDecree authorizes reconstructing a partida whose book entry is
// gone. The original locator is typed from memory or surviving evidence, so
// unlike a correction there is no record to snapshot.
type ReplacementDecree struct {
	ID                domain.DecreeID      `json:"id"`
	ParishID          domain.ParishID      `json:"parish_id"`
	DecreeNumber      string               `json:"decree_number"`
	DecreeDate        time.Time            `json:"decree_date"`
	Causa             ReplacementCause     `json:"causa"`
	SacramentType     domain.SacramentType `json:"sacrament_type"`
	OriginalLocator   domain.Locator       `json:"original_locator"`
	SubjectName       string               `json:"subject_name"`
	ConceptID         domain.ConceptID     `json:"concept_id"`
	DescripcionHechos string               `json:"descripcion_hechos,omitempty"`
	Autoridad         string               `json:"autoridad,omitempty"`
	Testigos          []string             `json:"testigos,omitempty"`
	Status            ReplacementStatus    `json:"status"`
	NewRecordID       *domain.RecordID     `json:"new_record_id,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// NewReplacementDecree validates and constructs a draft replacement decree.
// The original locator may be partial; it is testimony, not a reference.
func NewReplacementDecree(
	id domain.DecreeID,
	parishID domain.ParishID,
	decreeNumber string,
	decreeDate time.Time,
	causa ReplacementCause,
	sacramentType domain.SacramentType,
	originalLocator domain.Locator,
	subjectName string,
	conceptID domain.ConceptID,
	now time.Time,
) (*ReplacementDecree, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "decree id is required")
	}
	if parishID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "decree parish is required")
	}
	if decreeNumber == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "decree number is required")
	}
	if _, err := ParseReplacementCause(string(causa)); err != nil {
		return nil, err
	}
	if !sacramentType.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "decree sacrament type is invalid")
	}
	if strings.TrimSpace(subjectName) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "subject name is required")
	}
	if conceptID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "decree concept is required")
	}

	return &ReplacementDecree{
		ID:              id,
		ParishID:        parishID,
		DecreeNumber:    decreeNumber,
		DecreeDate:      decreeDate,
		Causa:           causa,
		SacramentType:   sacramentType,
		OriginalLocator: originalLocator,
		SubjectName:     strings.TrimSpace(subjectName),
		ConceptID:       conceptID,
		Status:          ReplacementStatusDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// IsFinalized reports whether a reconstructed partida is attached.
func (d *ReplacementDecree) IsFinalized() bool {
	return d.Status == ReplacementStatusFinalized
}

// CanAttach checks the draft → finalized transition guard.
func (d *ReplacementDecree) CanAttach() error {
	if d.Status != ReplacementStatusDraft {
		return dErrors.New(dErrors.CodeInvariantViolation, "replacement decree is already finalized")
	}
	return nil
}

// ApplyAttach links the reconstructed partida and finalizes the decree.
// Call CanAttach first.
func (d *ReplacementDecree) ApplyAttach(newRecordID domain.RecordID, now time.Time) {
	d.NewRecordID = &newRecordID
	d.Status = ReplacementStatusFinalized
	d.UpdatedAt = now
}

// Clone returns a deep copy.
func (d *ReplacementDecree) Clone() *ReplacementDecree {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Testigos = append([]string(nil), d.Testigos...)
	if d.NewRecordID != nil {
		v := *d.NewRecordID
		cp.NewRecordID = &v
	}
	return &cp
}

// DateText renders the decree date for marginal notes; empty when unset.
func (d *ReplacementDecree) DateText() string {
	if d.DecreeDate.IsZero() {
		return ""
	}
	return d.DecreeDate.Format("2006-01-02")
}
