package domain

import dErrors "chancery/pkg/domain-errors"

// DecreeKind distinguishes the two decree workflows. Correction decrees annul
// an existing electronic partida in favor of a corrected one; replacement
// decrees reconstruct an entry whose physical book was lost or destroyed.
type DecreeKind string

const (
	DecreeKindCorrection  DecreeKind = "correction"
	DecreeKindReplacement DecreeKind = "replacement"
)

var validDecreeKinds = map[DecreeKind]bool{
	DecreeKindCorrection:  true,
	DecreeKindReplacement: true,
}

// ParseDecreeKind constructs a DecreeKind from external input.
func ParseDecreeKind(s string) (DecreeKind, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "decree kind cannot be empty")
	}
	k := DecreeKind(s)
	if !k.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid decree kind")
	}
	return k, nil
}

// IsValid checks if the decree kind is one of the supported enum values.
func (k DecreeKind) IsValid() bool {
	return validDecreeKinds[k]
}

// String returns the string representation of the decree kind.
func (k DecreeKind) String() string {
	return string(k)
}
