package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"chancery/internal/concept/models"
	"chancery/internal/note"
	"chancery/pkg/domain"
	"chancery/pkg/platform/sentinel"
	"chancery/pkg/platform/tx"
)

// Postgres persists concepts in the concepts table. The (diocese_id, codigo)
// unique constraint backs the duplicate-codigo sentinel.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const conceptColumns = `id, diocese_id, codigo, concepto, expide, tipo,
	nota_al_margen_id, created_at, updated_at`

func (s *Postgres) Get(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) (*models.AnnulmentConcept, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+conceptColumns+` FROM concepts WHERE diocese_id = $1 AND id = $2`,
		uuid.UUID(dioceseID), uuid.UUID(conceptID))
	return scanConcept(row)
}

func (s *Postgres) FindByCodigo(ctx context.Context, dioceseID domain.DioceseID, codigo string) (*models.AnnulmentConcept, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+conceptColumns+` FROM concepts WHERE diocese_id = $1 AND codigo = $2`,
		uuid.UUID(dioceseID), codigo)
	return scanConcept(row)
}

func (s *Postgres) Put(ctx context.Context, concept *models.AnnulmentConcept) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO concepts (`+conceptColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			codigo = EXCLUDED.codigo,
			concepto = EXCLUDED.concepto,
			expide = EXCLUDED.expide,
			tipo = EXCLUDED.tipo,
			nota_al_margen_id = EXCLUDED.nota_al_margen_id,
			updated_at = EXCLUDED.updated_at`,
		uuid.UUID(concept.ID),
		uuid.UUID(concept.DioceseID),
		concept.Codigo,
		concept.Concepto,
		concept.Expide,
		string(concept.Tipo),
		string(concept.NotaAlMargenID),
		concept.CreatedAt,
		concept.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return sentinel.ErrAlreadyUsed
	}
	return err
}

func (s *Postgres) Delete(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx,
		`DELETE FROM concepts WHERE diocese_id = $1 AND id = $2`,
		uuid.UUID(dioceseID), uuid.UUID(conceptID))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) List(ctx context.Context, dioceseID domain.DioceseID) ([]*models.AnnulmentConcept, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx,
		`SELECT `+conceptColumns+` FROM concepts WHERE diocese_id = $1 ORDER BY codigo`,
		uuid.UUID(dioceseID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.AnnulmentConcept
	for rows.Next() {
		concept, err := scanConcept(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, concept)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConcept(row rowScanner) (*models.AnnulmentConcept, error) {
	var (
		concept   models.AnnulmentConcept
		id        uuid.UUID
		dioceseID uuid.UUID
		tipo      string
		notaID    string
	)
	err := row.Scan(&id, &dioceseID, &concept.Codigo, &concept.Concepto,
		&concept.Expide, &tipo, &notaID, &concept.CreatedAt, &concept.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}

	concept.ID = domain.ConceptID(id)
	concept.DioceseID = domain.DioceseID(dioceseID)
	concept.Tipo = models.ConceptType(tipo)
	concept.NotaAlMargenID = note.TemplateID(notaID)
	return &concept, nil
}
