package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"chancery/internal/parish/models"
	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
	"chancery/pkg/platform/sentinel"
	"chancery/pkg/requestcontext"
)

type ParishStore interface {
	Get(ctx context.Context, dioceseID domain.DioceseID, parishID domain.ParishID) (*models.Parish, error)
	Put(ctx context.Context, parish *models.Parish) error
	List(ctx context.Context, dioceseID domain.DioceseID) ([]*models.Parish, error)
}

// Directory manages the diocese's parish roster.
type Directory struct {
	parishes ParishStore
	logger   *slog.Logger
}

type Option func(d *Directory)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) {
		d.logger = logger
	}
}

func NewDirectory(parishes ParishStore, opts ...Option) *Directory {
	d := &Directory{parishes: parishes}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

func (d *Directory) Create(ctx context.Context, dioceseID domain.DioceseID, name, city string) (*models.Parish, error) {
	parish, err := models.NewParish(
		domain.ParishID(uuid.New()), dioceseID, name, city,
		requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := d.parishes.Put(ctx, parish); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create parish")
	}

	d.logger.InfoContext(ctx, "parish created",
		"parish_id", parish.ID, "name", parish.Name, "log_type", "audit")
	return parish, nil
}

func (d *Directory) Get(ctx context.Context, dioceseID domain.DioceseID, parishID domain.ParishID) (*models.Parish, error) {
	parish, err := d.parishes.Get(ctx, dioceseID, parishID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "parish not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load parish")
	}
	return parish, nil
}

// List returns every parish in the diocese, active or not.
func (d *Directory) List(ctx context.Context, dioceseID domain.DioceseID) ([]*models.Parish, error) {
	if dioceseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "diocese id is required")
	}
	parishes, err := d.parishes.List(ctx, dioceseID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list parishes")
	}
	return parishes, nil
}

// ListActive returns only the parishes still taking new register entries.
func (d *Directory) ListActive(ctx context.Context, dioceseID domain.DioceseID) ([]*models.Parish, error) {
	parishes, err := d.List(ctx, dioceseID)
	if err != nil {
		return nil, err
	}
	active := parishes[:0]
	for _, p := range parishes {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active, nil
}

func (d *Directory) Deactivate(ctx context.Context, dioceseID domain.DioceseID, parishID domain.ParishID) (*models.Parish, error) {
	parish, err := d.Get(ctx, dioceseID, parishID)
	if err != nil {
		return nil, err
	}
	if err := parish.CanDeactivate(); err != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "parish is already inactive")
	}
	parish.ApplyDeactivation(requestcontext.Now(ctx))
	if err := d.parishes.Put(ctx, parish); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to deactivate parish")
	}
	return parish, nil
}

func (d *Directory) Reactivate(ctx context.Context, dioceseID domain.DioceseID, parishID domain.ParishID) (*models.Parish, error) {
	parish, err := d.Get(ctx, dioceseID, parishID)
	if err != nil {
		return nil, err
	}
	if err := parish.CanReactivate(); err != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "parish is already active")
	}
	parish.ApplyReactivation(requestcontext.Now(ctx))
	if err := d.parishes.Put(ctx, parish); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reactivate parish")
	}
	return parish, nil
}
