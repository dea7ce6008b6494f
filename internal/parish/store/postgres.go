package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"chancery/internal/parish/models"
	"chancery/pkg/domain"
	"chancery/pkg/platform/sentinel"
	"chancery/pkg/platform/tx"
)

// Postgres persists the parish directory.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const parishColumns = `id, diocese_id, name, city, status, created_at, updated_at`

func (s *Postgres) Get(ctx context.Context, dioceseID domain.DioceseID, parishID domain.ParishID) (*models.Parish, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+parishColumns+` FROM parishes WHERE diocese_id = $1 AND id = $2`,
		uuid.UUID(dioceseID), uuid.UUID(parishID))
	return scanParish(row)
}

func (s *Postgres) Put(ctx context.Context, parish *models.Parish) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO parishes (`+parishColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		uuid.UUID(parish.ID),
		uuid.UUID(parish.DioceseID),
		parish.Name,
		parish.City,
		string(parish.Status),
		parish.CreatedAt,
		parish.UpdatedAt,
	)
	return err
}

func (s *Postgres) List(ctx context.Context, dioceseID domain.DioceseID) ([]*models.Parish, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx,
		`SELECT `+parishColumns+` FROM parishes WHERE diocese_id = $1 ORDER BY name`,
		uuid.UUID(dioceseID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Parish
	for rows.Next() {
		parish, err := scanParish(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, parish)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParish(row rowScanner) (*models.Parish, error) {
	var (
		parish    models.Parish
		id        uuid.UUID
		dioceseID uuid.UUID
		status    string
	)
	err := row.Scan(&id, &dioceseID, &parish.Name, &parish.City, &status,
		&parish.CreatedAt, &parish.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}

	parish.ID = domain.ParishID(id)
	parish.DioceseID = domain.DioceseID(dioceseID)
	parish.Status = models.ParishStatus(status)
	return &parish, nil
}
