package domain

import dErrors "chancery/pkg/domain-errors"

// SacramentType identifies which register a partida belongs to.
// Invariant: the value must be one of the supported sacrament types.
//
// Usage: construct via ParseSacramentType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type SacramentType string

// Supported sacrament registers.
const (
	SacramentBaptism      SacramentType = "baptism"
	SacramentConfirmation SacramentType = "confirmation"
	SacramentMarriage     SacramentType = "marriage"
)

// validSacramentTypes is the single source of truth for valid sacrament types.
var validSacramentTypes = map[SacramentType]bool{
	SacramentBaptism:      true,
	SacramentConfirmation: true,
	SacramentMarriage:     true,
}

// ParseSacramentType constructs a SacramentType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported; no
// other errors are expected.
func ParseSacramentType(s string) (SacramentType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "sacrament type cannot be empty")
	}
	t := SacramentType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid sacrament type")
	}
	return t, nil
}

// IsValid checks if the sacrament type is one of the supported enum values.
func (t SacramentType) IsValid() bool {
	return validSacramentTypes[t]
}

// String returns the string representation of the sacrament type.
func (t SacramentType) String() string {
	return string(t)
}

// SupportedSacramentTypes returns all register kinds in a stable order.
func SupportedSacramentTypes() []SacramentType {
	return []SacramentType{SacramentBaptism, SacramentConfirmation, SacramentMarriage}
}
