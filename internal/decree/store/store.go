// Package store persists correction and replacement decrees. Both kinds are
// parish-scoped and share the sentinel-error contract of the record store.
package store

import (
	"context"

	"chancery/internal/decree/models"
	"chancery/pkg/domain"
)

// CorrectionStore is the correction decree repository contract.
type CorrectionStore interface {
	Get(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*models.CorrectionDecree, error)
	Put(ctx context.Context, decree *models.CorrectionDecree) error
	Delete(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) error
	List(ctx context.Context, parishID domain.ParishID) ([]*models.CorrectionDecree, error)
	// CountByConcept counts decrees citing the concept across all parishes.
	// Concept ids are unique, so no diocese scope is needed.
	CountByConcept(ctx context.Context, conceptID domain.ConceptID) (int, error)
}

// ReplacementStore is the replacement decree repository contract.
type ReplacementStore interface {
	Get(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*models.ReplacementDecree, error)
	Put(ctx context.Context, decree *models.ReplacementDecree) error
	Delete(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) error
	List(ctx context.Context, parishID domain.ParishID) ([]*models.ReplacementDecree, error)
	CountByConcept(ctx context.Context, conceptID domain.ConceptID) (int, error)
}
