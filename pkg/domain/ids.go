package domain

import (
	"github.com/google/uuid"

	dErrors "chancery/pkg/domain-errors"
)

// Typed IDs prevent cross-entity assignment at compile time: a RecordID can
// never be passed where a DecreeID is expected. Construct via the ParseX
// helpers at trust boundaries; direct casting bypasses validation.
type (
	// DioceseID identifies a diocese, the aggregation scope for chancery reads.
	DioceseID uuid.UUID
	// ParishID identifies a parish, the ownership scope for records and decrees.
	ParishID uuid.UUID
	// RecordID identifies a sacramental register entry (partida).
	RecordID uuid.UUID
	// DecreeID identifies a correction or replacement decree.
	DecreeID uuid.UUID
	// ConceptID identifies an annulment concept configured by the chancery.
	ConceptID uuid.UUID
)

// parseUUID enforces the shared invariant: IDs must be valid, non-empty,
// non-nil UUIDs.
func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseDioceseID constructs a DioceseID from external input.
func ParseDioceseID(s string) (DioceseID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return DioceseID{}, err
	}
	return DioceseID(u), nil
}

// ParseParishID constructs a ParishID from external input.
func ParseParishID(s string) (ParishID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return ParishID{}, err
	}
	return ParishID(u), nil
}

// ParseRecordID constructs a RecordID from external input.
func ParseRecordID(s string) (RecordID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return RecordID{}, err
	}
	return RecordID(u), nil
}

// ParseDecreeID constructs a DecreeID from external input.
func ParseDecreeID(s string) (DecreeID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return DecreeID{}, err
	}
	return DecreeID(u), nil
}

// ParseConceptID constructs a ConceptID from external input.
func ParseConceptID(s string) (ConceptID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return ConceptID{}, err
	}
	return ConceptID(u), nil
}

func (id DioceseID) String() string { return uuid.UUID(id).String() }
func (id ParishID) String() string  { return uuid.UUID(id).String() }
func (id RecordID) String() string  { return uuid.UUID(id).String() }
func (id DecreeID) String() string  { return uuid.UUID(id).String() }
func (id ConceptID) String() string { return uuid.UUID(id).String() }

func (id DioceseID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ParishID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id RecordID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id DecreeID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ConceptID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText implementations keep typed IDs JSON-friendly as plain UUID strings.
func (id DioceseID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ParishID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id RecordID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id DecreeID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id ConceptID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *DioceseID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = DioceseID(u)
	return nil
}

func (id *ParishID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = ParishID(u)
	return nil
}

func (id *RecordID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = RecordID(u)
	return nil
}

func (id *DecreeID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = DecreeID(u)
	return nil
}

func (id *ConceptID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = ConceptID(u)
	return nil
}
