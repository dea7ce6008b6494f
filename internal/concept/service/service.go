package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"chancery/internal/concept/models"
	"chancery/internal/note"
	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
	"chancery/pkg/platform/sentinel"
	"chancery/pkg/requestcontext"
)

type ConceptStore interface {
	Get(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) (*models.AnnulmentConcept, error)
	FindByCodigo(ctx context.Context, dioceseID domain.DioceseID, codigo string) (*models.AnnulmentConcept, error)
	Put(ctx context.Context, concept *models.AnnulmentConcept) error
	Delete(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) error
	List(ctx context.Context, dioceseID domain.DioceseID) ([]*models.AnnulmentConcept, error)
}

// ReferenceCounter reports how many decrees cite a concept. The registry
// refuses to delete a concept that is still referenced.
type ReferenceCounter interface {
	CountByConcept(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) (int, error)
}

// Registry manages the diocese's annulment concept catalogue.
type Registry struct {
	concepts ConceptStore
	refs     ReferenceCounter
	logger   *slog.Logger
}

type Option func(r *Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithReferenceCounter(refs ReferenceCounter) Option {
	return func(r *Registry) {
		r.refs = refs
	}
}

func NewRegistry(concepts ConceptStore, opts ...Option) *Registry {
	r := &Registry{concepts: concepts}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

type CreateConceptRequest struct {
	Codigo         string          `json:"codigo"`
	Concepto       string          `json:"concepto"`
	Expide         string          `json:"expide"`
	Tipo           string          `json:"tipo"`
	NotaAlMargenID note.TemplateID `json:"nota_al_margen_id"`
}

type UpdateConceptRequest struct {
	Concepto       *string          `json:"concepto,omitempty"`
	Expide         *string          `json:"expide,omitempty"`
	Tipo           *string          `json:"tipo,omitempty"`
	NotaAlMargenID *note.TemplateID `json:"nota_al_margen_id,omitempty"`
}

func (r *Registry) List(ctx context.Context, dioceseID domain.DioceseID) ([]*models.AnnulmentConcept, error) {
	if dioceseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "diocese id is required")
	}
	concepts, err := r.concepts.List(ctx, dioceseID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list concepts")
	}
	return concepts, nil
}

func (r *Registry) Create(ctx context.Context, dioceseID domain.DioceseID, req CreateConceptRequest) (*models.AnnulmentConcept, error) {
	if dioceseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "diocese id is required")
	}
	tipo, err := models.ParseConceptType(req.Tipo)
	if err != nil {
		return nil, err
	}

	concept, err := models.NewConcept(
		domain.ConceptID(uuid.New()), dioceseID,
		req.Codigo, req.Concepto, req.Expide, tipo, req.NotaAlMargenID,
		requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := r.concepts.Put(ctx, concept); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "concept codigo must be unique within the diocese")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create concept")
	}

	r.logger.InfoContext(ctx, "concept created",
		"concept_id", concept.ID, "codigo", concept.Codigo, "log_type", "audit")
	return concept, nil
}

func (r *Registry) Update(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID, req UpdateConceptRequest) (*models.AnnulmentConcept, error) {
	concept, err := r.Resolve(ctx, dioceseID, conceptID)
	if err != nil {
		return nil, err
	}

	if req.Concepto != nil {
		if strings.TrimSpace(*req.Concepto) == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "concept description is required")
		}
		concept.Concepto = strings.TrimSpace(*req.Concepto)
	}
	if req.Expide != nil {
		concept.Expide = strings.TrimSpace(*req.Expide)
	}
	if req.Tipo != nil {
		tipo, err := models.ParseConceptType(*req.Tipo)
		if err != nil {
			return nil, err
		}
		concept.Tipo = tipo
	}
	if req.NotaAlMargenID != nil {
		concept.NotaAlMargenID = *req.NotaAlMargenID
		if concept.NotaAlMargenID == "" {
			concept.NotaAlMargenID = note.TemplateEstandar
		}
	}
	concept.UpdatedAt = requestcontext.Now(ctx)

	if err := r.concepts.Put(ctx, concept); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update concept")
	}
	return concept, nil
}

// Resolve loads a concept by id. A missing concept is a distinct error code
// so decree creation can surface the misconfiguration instead of silently
// falling back to a default note.
func (r *Registry) Resolve(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) (*models.AnnulmentConcept, error) {
	if dioceseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "diocese id is required")
	}
	if conceptID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "concept id is required")
	}
	concept, err := r.concepts.Get(ctx, dioceseID, conceptID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeConceptNotFound, "annulment concept not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve concept")
	}
	return concept, nil
}

// ResolveByCodigo maps a registry code to its entry.
func (r *Registry) ResolveByCodigo(ctx context.Context, dioceseID domain.DioceseID, codigo string) (*models.AnnulmentConcept, error) {
	codigo = strings.TrimSpace(codigo)
	if codigo == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "concept codigo is required")
	}
	concept, err := r.concepts.FindByCodigo(ctx, dioceseID, codigo)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeConceptNotFound, "annulment concept not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve concept")
	}
	return concept, nil
}

// Delete removes a concept unless a decree still references it.
func (r *Registry) Delete(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) error {
	if _, err := r.Resolve(ctx, dioceseID, conceptID); err != nil {
		return err
	}

	if r.refs != nil {
		count, err := r.refs.CountByConcept(ctx, dioceseID, conceptID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count concept references")
		}
		if count > 0 {
			return dErrors.New(dErrors.CodeConflict, "concept is referenced by existing decrees")
		}
	}

	if err := r.concepts.Delete(ctx, dioceseID, conceptID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeConceptNotFound, "annulment concept not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete concept")
	}

	r.logger.InfoContext(ctx, "concept deleted",
		"concept_id", conceptID, "log_type", "audit")
	return nil
}
