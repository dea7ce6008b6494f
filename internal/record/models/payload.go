package models

import (
	"strings"

	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
)

// Payload is the sacrament-specific body of a partida, a tagged union with
// exactly one variant set, matching the record's SacramentType. This
// replaces the duck-typed field fallbacks of the legacy screens with an
// explicit shape per register.
type Payload struct {
	Baptism      *BaptismDetails      `json:"baptism,omitempty"`
	Confirmation *ConfirmationDetails `json:"confirmation,omitempty"`
	Marriage     *MarriageDetails     `json:"marriage,omitempty"`
}

// BaptismDetails carries the fields of a baptism entry. Ledger dates stay
// free-form strings: historical books record them in prose.
type BaptismDetails struct {
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	BirthDate    string   `json:"birth_date,omitempty"`
	BirthPlace   string   `json:"birth_place,omitempty"`
	BaptismDate  string   `json:"baptism_date,omitempty"`
	FatherName   string   `json:"father_name,omitempty"`
	MotherName   string   `json:"mother_name,omitempty"`
	Godparents   []string `json:"godparents,omitempty"`
	Minister     string   `json:"minister,omitempty"`
}

// ConfirmationDetails carries the fields of a confirmation entry.
type ConfirmationDetails struct {
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Date        string   `json:"date,omitempty"`
	Sponsors    []string `json:"sponsors,omitempty"`
	Minister    string   `json:"minister,omitempty"`
	BaptismRef  string   `json:"baptism_ref,omitempty"`
}

// MarriageDetails carries the fields of a marriage entry.
type MarriageDetails struct {
	GroomFirstName string   `json:"groom_first_name"`
	GroomLastName  string   `json:"groom_last_name"`
	BrideFirstName string   `json:"bride_first_name"`
	BrideLastName  string   `json:"bride_last_name"`
	Date           string   `json:"date,omitempty"`
	Witnesses      []string `json:"witnesses,omitempty"`
	Minister       string   `json:"minister,omitempty"`
}

// Validate enforces the tagged-union invariant: exactly one variant, the one
// matching the sacrament type, with the identity name fields present.
func (p Payload) Validate(t domain.SacramentType) error {
	set := 0
	if p.Baptism != nil {
		set++
	}
	if p.Confirmation != nil {
		set++
	}
	if p.Marriage != nil {
		set++
	}
	if set != 1 {
		return dErrors.New(dErrors.CodeInvariantViolation, "payload must carry exactly one sacrament variant")
	}

	switch t {
	case domain.SacramentBaptism:
		if p.Baptism == nil {
			return dErrors.New(dErrors.CodeInvariantViolation, "baptism record requires a baptism payload")
		}
		if blank(p.Baptism.FirstName) || blank(p.Baptism.LastName) {
			return dErrors.New(dErrors.CodeValidation, "baptism payload requires first and last name")
		}
	case domain.SacramentConfirmation:
		if p.Confirmation == nil {
			return dErrors.New(dErrors.CodeInvariantViolation, "confirmation record requires a confirmation payload")
		}
		if blank(p.Confirmation.FirstName) || blank(p.Confirmation.LastName) {
			return dErrors.New(dErrors.CodeValidation, "confirmation payload requires first and last name")
		}
	case domain.SacramentMarriage:
		if p.Marriage == nil {
			return dErrors.New(dErrors.CodeInvariantViolation, "marriage record requires a marriage payload")
		}
		if blank(p.Marriage.GroomFirstName) || blank(p.Marriage.GroomLastName) ||
			blank(p.Marriage.BrideFirstName) || blank(p.Marriage.BrideLastName) {
			return dErrors.New(dErrors.CodeValidation, "marriage payload requires groom and bride names")
		}
	default:
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown sacrament type")
	}
	return nil
}

// SubjectName returns the headline name for decree snapshots and documents.
func (p Payload) SubjectName() string {
	switch {
	case p.Baptism != nil:
		return joinName(p.Baptism.FirstName, p.Baptism.LastName)
	case p.Confirmation != nil:
		return joinName(p.Confirmation.FirstName, p.Confirmation.LastName)
	case p.Marriage != nil:
		groom := joinName(p.Marriage.GroomFirstName, p.Marriage.GroomLastName)
		bride := joinName(p.Marriage.BrideFirstName, p.Marriage.BrideLastName)
		return groom + " y " + bride
	default:
		return ""
	}
}

// Clone returns a deep copy of the payload.
func (p Payload) Clone() Payload {
	var cp Payload
	if p.Baptism != nil {
		b := *p.Baptism
		b.Godparents = append([]string(nil), p.Baptism.Godparents...)
		cp.Baptism = &b
	}
	if p.Confirmation != nil {
		c := *p.Confirmation
		c.Sponsors = append([]string(nil), p.Confirmation.Sponsors...)
		cp.Confirmation = &c
	}
	if p.Marriage != nil {
		m := *p.Marriage
		m.Witnesses = append([]string(nil), p.Marriage.Witnesses...)
		cp.Marriage = &m
	}
	return cp
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
