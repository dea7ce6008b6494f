package store

import (
	"context"

	"chancery/internal/concept/models"
	"chancery/pkg/domain"
)

// Store persists annulment concepts scoped to a diocese. Implementations
// return sentinel.ErrNotFound when an entry is absent and
// sentinel.ErrAlreadyUsed when a codigo collides inside a diocese.
type Store interface {
	Get(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) (*models.AnnulmentConcept, error)
	FindByCodigo(ctx context.Context, dioceseID domain.DioceseID, codigo string) (*models.AnnulmentConcept, error)
	Put(ctx context.Context, concept *models.AnnulmentConcept) error
	Delete(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) error
	List(ctx context.Context, dioceseID domain.DioceseID) ([]*models.AnnulmentConcept, error)
}
