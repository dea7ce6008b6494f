// Package store persists sacramental records. One logical collection exists
// per (parish, sacrament type) pair; both implementations share the same
// sentinel-error contract so services stay backend-agnostic.
package store

import (
	"context"

	"chancery/internal/record/models"
	"chancery/pkg/domain"
)

// Store is the record repository contract consumed by the decree engine and
// the read paths.
type Store interface {
	// Get returns the record regardless of its sacrament type.
	Get(ctx context.Context, parishID domain.ParishID, recordID domain.RecordID) (*models.SacramentRecord, error)
	// Put creates or replaces the record under its parish.
	Put(ctx context.Context, record *models.SacramentRecord) error
	// Delete removes the record. Returns sentinel.ErrNotFound when absent so
	// inverse operations can surface integrity warnings.
	Delete(ctx context.Context, parishID domain.ParishID, recordID domain.RecordID) error
	// List returns the parish's records for one register, unordered.
	List(ctx context.Context, parishID domain.ParishID, sacramentType domain.SacramentType) ([]*models.SacramentRecord, error)
}
