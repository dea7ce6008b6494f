package store

import (
	"context"

	"chancery/internal/parish/models"
	"chancery/pkg/domain"
)

// Store persists the diocese's parish directory.
type Store interface {
	Get(ctx context.Context, dioceseID domain.DioceseID, parishID domain.ParishID) (*models.Parish, error)
	Put(ctx context.Context, parish *models.Parish) error
	List(ctx context.Context, dioceseID domain.DioceseID) ([]*models.Parish, error)
}
