package models

import (
	"strings"
	"time"

	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
)

// ParishStatus is the directory state of a parish.
type ParishStatus string

const (
	ParishStatusActive   ParishStatus = "active"
	ParishStatusInactive ParishStatus = "inactive"
)

// Parish is a directory entry in the diocese. The aggregator fans out over
// active parishes; an inactive parish keeps its records and decrees but is
// skipped by new work.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Status transitions: active ↔ inactive only
//   - CreatedAt is immutable after construction
type Parish struct {
	ID        domain.ParishID  `json:"id"`
	DioceseID domain.DioceseID `json:"diocese_id"`
	Name      string           `json:"name"`
	City      string           `json:"city"`
	Status    ParishStatus     `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewParish(parishID domain.ParishID, dioceseID domain.DioceseID, name, city string, now time.Time) (*Parish, error) {
	name = strings.TrimSpace(name)
	if parishID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "parish id is required")
	}
	if dioceseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "parish diocese is required")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "parish name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "parish name must be 128 characters or less")
	}
	return &Parish{
		ID:        parishID,
		DioceseID: dioceseID,
		Name:      name,
		City:      strings.TrimSpace(city),
		Status:    ParishStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p *Parish) IsActive() bool {
	return p.Status == ParishStatusActive
}

// CanDeactivate checks the active → inactive transition guard.
func (p *Parish) CanDeactivate() error {
	if p.Status != ParishStatusActive {
		return dErrors.New(dErrors.CodeInvariantViolation, "parish is already inactive")
	}
	return nil
}

// ApplyDeactivation transitions the parish to inactive. Call CanDeactivate
// first.
func (p *Parish) ApplyDeactivation(now time.Time) {
	p.Status = ParishStatusInactive
	p.UpdatedAt = now
}

// CanReactivate checks the inactive → active transition guard.
func (p *Parish) CanReactivate() error {
	if p.Status != ParishStatusInactive {
		return dErrors.New(dErrors.CodeInvariantViolation, "parish is already active")
	}
	return nil
}

// ApplyReactivation transitions the parish back to active. Call CanReactivate
// first.
func (p *Parish) ApplyReactivation(now time.Time) {
	p.Status = ParishStatusActive
	p.UpdatedAt = now
}

// Clone returns a copy so callers cannot mutate stored state.
func (p *Parish) Clone() *Parish {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}
