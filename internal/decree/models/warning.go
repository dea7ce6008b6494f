package models

// IntegrityWarning reports an inconsistency the engine tolerated instead of
// failing, for example a decree whose corrected partida had already been
// removed by hand. Warnings ride on result structs and get audited; they are
// never errors.
type IntegrityWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	// WarningNewRecordMissing: the decree's corrected or reconstructed
	// partida was gone before the inverse delete ran.
	WarningNewRecordMissing = "new_record_missing"
	// WarningOriginalMissing: the annulled original could not be found when
	// the inverse delete tried to restore it.
	WarningOriginalMissing = "original_record_missing"
)
