package models

import (
	"strings"
	"time"

	"chancery/internal/note"
	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
)

// ConceptType categorises why a decree annuls or replaces a record.
// The values are the canonical registry codes used on printed decrees.
type ConceptType string

const (
	TypeCorrection  ConceptType = "porCorreccion"
	TypeReplacement ConceptType = "porReposicion"
	TypeReissue     ConceptType = "porRepeticion"
	TypeNullity     ConceptType = "porNulidad"
)

func ParseConceptType(raw string) (ConceptType, error) {
	switch ConceptType(strings.TrimSpace(raw)) {
	case TypeCorrection:
		return TypeCorrection, nil
	case TypeReplacement:
		return TypeReplacement, nil
	case TypeReissue:
		return TypeReissue, nil
	case TypeNullity:
		return TypeNullity, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "unknown concept type: "+raw)
	}
}

func (t ConceptType) IsValid() bool {
	_, err := ParseConceptType(string(t))
	return err == nil
}

func (t ConceptType) String() string { return string(t) }

// AnnulmentConcept is a registry entry mapping a concept code to the
// issuing office and marginal-note template a decree of that kind uses.
type AnnulmentConcept struct {
	ID             domain.ConceptID `json:"id"`
	DioceseID      domain.DioceseID `json:"diocese_id"`
	Codigo         string           `json:"codigo"`
	Concepto       string           `json:"concepto"`
	Expide         string           `json:"expide"`
	Tipo           ConceptType      `json:"tipo"`
	NotaAlMargenID note.TemplateID  `json:"nota_al_margen_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NewConcept validates and constructs a registry entry. An empty note
// template falls back to the standard marginal note.
func NewConcept(id domain.ConceptID, dioceseID domain.DioceseID, codigo, concepto, expide string, tipo ConceptType, notaID note.TemplateID, now time.Time) (*AnnulmentConcept, error) {
	codigo = strings.TrimSpace(codigo)
	concepto = strings.TrimSpace(concepto)
	expide = strings.TrimSpace(expide)

	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "concept id is required")
	}
	if dioceseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "diocese id is required")
	}
	if codigo == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "concept codigo is required")
	}
	if concepto == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "concept description is required")
	}
	if !tipo.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown concept type: "+string(tipo))
	}
	if notaID == "" {
		notaID = note.TemplateEstandar
	}

	return &AnnulmentConcept{
		ID:             id,
		DioceseID:      dioceseID,
		Codigo:         codigo,
		Concepto:       concepto,
		Expide:         expide,
		Tipo:           tipo,
		NotaAlMargenID: notaID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (c *AnnulmentConcept) Clone() *AnnulmentConcept {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}
