package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"chancery/internal/decree/models"
	"chancery/pkg/domain"
	"chancery/pkg/platform/sentinel"
	"chancery/pkg/platform/tx"
)

// CorrectionPostgres persists correction decrees. The original-record
// snapshot is stored as jsonb so the inverse delete can restore the exact
// pre-annulment image without joining the records table.
type CorrectionPostgres struct {
	db *sql.DB
}

func NewCorrectionPostgres(db *sql.DB) *CorrectionPostgres {
	return &CorrectionPostgres{db: db}
}

const correctionColumns = `id, parish_id, decree_number, decree_date, concept_id,
	original_snapshot, new_record_id, created_at, updated_at`

func (s *CorrectionPostgres) Get(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*models.CorrectionDecree, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+correctionColumns+` FROM correction_decrees WHERE parish_id = $1 AND id = $2`,
		uuid.UUID(parishID), uuid.UUID(decreeID))
	return scanCorrection(row)
}

func (s *CorrectionPostgres) Put(ctx context.Context, decree *models.CorrectionDecree) error {
	snapshot, err := json.Marshal(decree.Original)
	if err != nil {
		return fmt.Errorf("marshal original snapshot: %w", err)
	}

	q := tx.Resolve(ctx, s.db)
	_, err = q.ExecContext(ctx, `
		INSERT INTO correction_decrees (`+correctionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			decree_number = EXCLUDED.decree_number,
			decree_date = EXCLUDED.decree_date,
			concept_id = EXCLUDED.concept_id,
			updated_at = EXCLUDED.updated_at`,
		uuid.UUID(decree.ID),
		uuid.UUID(decree.ParishID),
		decree.DecreeNumber,
		nullIfZeroTime(decree.DecreeDate),
		uuid.UUID(decree.ConceptID),
		snapshot,
		uuid.UUID(decree.NewRecordID),
		decree.CreatedAt,
		decree.UpdatedAt,
	)
	return err
}

func (s *CorrectionPostgres) Delete(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) error {
	return deleteDecree(ctx, s.db, "correction_decrees", parishID, decreeID)
}

func (s *CorrectionPostgres) List(ctx context.Context, parishID domain.ParishID) ([]*models.CorrectionDecree, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx,
		`SELECT `+correctionColumns+` FROM correction_decrees WHERE parish_id = $1`,
		uuid.UUID(parishID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.CorrectionDecree
	for rows.Next() {
		decree, err := scanCorrection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, decree)
	}
	return out, rows.Err()
}

func (s *CorrectionPostgres) CountByConcept(ctx context.Context, conceptID domain.ConceptID) (int, error) {
	return countByConcept(ctx, s.db, "correction_decrees", conceptID)
}

// ReplacementPostgres persists replacement decrees.
type ReplacementPostgres struct {
	db *sql.DB
}

func NewReplacementPostgres(db *sql.DB) *ReplacementPostgres {
	return &ReplacementPostgres{db: db}
}

const replacementColumns = `id, parish_id, decree_number, decree_date, causa,
	sacrament_type, original_book, original_folio, original_entry, subject_name,
	concept_id, descripcion_hechos, autoridad, testigos, status, new_record_id,
	created_at, updated_at`

func (s *ReplacementPostgres) Get(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*models.ReplacementDecree, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+replacementColumns+` FROM replacement_decrees WHERE parish_id = $1 AND id = $2`,
		uuid.UUID(parishID), uuid.UUID(decreeID))
	return scanReplacement(row)
}

func (s *ReplacementPostgres) Put(ctx context.Context, decree *models.ReplacementDecree) error {
	testigos, err := json.Marshal(decree.Testigos)
	if err != nil {
		return fmt.Errorf("marshal testigos: %w", err)
	}

	q := tx.Resolve(ctx, s.db)
	_, err = q.ExecContext(ctx, `
		INSERT INTO replacement_decrees (`+replacementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			decree_number = EXCLUDED.decree_number,
			decree_date = EXCLUDED.decree_date,
			causa = EXCLUDED.causa,
			original_book = EXCLUDED.original_book,
			original_folio = EXCLUDED.original_folio,
			original_entry = EXCLUDED.original_entry,
			subject_name = EXCLUDED.subject_name,
			concept_id = EXCLUDED.concept_id,
			descripcion_hechos = EXCLUDED.descripcion_hechos,
			autoridad = EXCLUDED.autoridad,
			testigos = EXCLUDED.testigos,
			status = EXCLUDED.status,
			new_record_id = EXCLUDED.new_record_id,
			updated_at = EXCLUDED.updated_at`,
		uuid.UUID(decree.ID),
		uuid.UUID(decree.ParishID),
		decree.DecreeNumber,
		nullIfZeroTime(decree.DecreeDate),
		string(decree.Causa),
		decree.SacramentType.String(),
		decree.OriginalLocator.Book,
		decree.OriginalLocator.Folio,
		decree.OriginalLocator.Entry,
		decree.SubjectName,
		uuid.UUID(decree.ConceptID),
		decree.DescripcionHechos,
		decree.Autoridad,
		testigos,
		string(decree.Status),
		recordIDOrNil(decree.NewRecordID),
		decree.CreatedAt,
		decree.UpdatedAt,
	)
	return err
}

func (s *ReplacementPostgres) Delete(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) error {
	return deleteDecree(ctx, s.db, "replacement_decrees", parishID, decreeID)
}

func (s *ReplacementPostgres) List(ctx context.Context, parishID domain.ParishID) ([]*models.ReplacementDecree, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx,
		`SELECT `+replacementColumns+` FROM replacement_decrees WHERE parish_id = $1`,
		uuid.UUID(parishID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ReplacementDecree
	for rows.Next() {
		decree, err := scanReplacement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, decree)
	}
	return out, rows.Err()
}

func (s *ReplacementPostgres) CountByConcept(ctx context.Context, conceptID domain.ConceptID) (int, error) {
	return countByConcept(ctx, s.db, "replacement_decrees", conceptID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCorrection(row rowScanner) (*models.CorrectionDecree, error) {
	var (
		decree      models.CorrectionDecree
		id          uuid.UUID
		parishID    uuid.UUID
		decreeDate  sql.NullTime
		conceptID   uuid.UUID
		snapshot    []byte
		newRecordID uuid.UUID
	)
	err := row.Scan(&id, &parishID, &decree.DecreeNumber, &decreeDate,
		&conceptID, &snapshot, &newRecordID, &decree.CreatedAt, &decree.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}

	decree.ID = domain.DecreeID(id)
	decree.ParishID = domain.ParishID(parishID)
	decree.ConceptID = domain.ConceptID(conceptID)
	decree.NewRecordID = domain.RecordID(newRecordID)
	if decreeDate.Valid {
		decree.DecreeDate = decreeDate.Time
	}
	if err := json.Unmarshal(snapshot, &decree.Original); err != nil {
		return nil, fmt.Errorf("unmarshal original snapshot: %w", err)
	}
	return &decree, nil
}

func scanReplacement(row rowScanner) (*models.ReplacementDecree, error) {
	var (
		decree      models.ReplacementDecree
		id          uuid.UUID
		parishID    uuid.UUID
		decreeDate  sql.NullTime
		causa       string
		sacrament   string
		conceptID   uuid.UUID
		testigos    []byte
		status      string
		newRecordID uuid.NullUUID
	)
	err := row.Scan(&id, &parishID, &decree.DecreeNumber, &decreeDate,
		&causa, &sacrament,
		&decree.OriginalLocator.Book, &decree.OriginalLocator.Folio, &decree.OriginalLocator.Entry,
		&decree.SubjectName, &conceptID, &decree.DescripcionHechos, &decree.Autoridad,
		&testigos, &status, &newRecordID, &decree.CreatedAt, &decree.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}

	decree.ID = domain.DecreeID(id)
	decree.ParishID = domain.ParishID(parishID)
	decree.Causa = models.ReplacementCause(causa)
	decree.SacramentType = domain.SacramentType(sacrament)
	decree.ConceptID = domain.ConceptID(conceptID)
	decree.Status = models.ReplacementStatus(status)
	if decreeDate.Valid {
		decree.DecreeDate = decreeDate.Time
	}
	if newRecordID.Valid {
		v := domain.RecordID(newRecordID.UUID)
		decree.NewRecordID = &v
	}
	if len(testigos) > 0 {
		if err := json.Unmarshal(testigos, &decree.Testigos); err != nil {
			return nil, fmt.Errorf("unmarshal testigos: %w", err)
		}
	}
	return &decree, nil
}

func deleteDecree(ctx context.Context, db *sql.DB, table string, parishID domain.ParishID, decreeID domain.DecreeID) error {
	q := tx.Resolve(ctx, db)
	res, err := q.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE parish_id = $1 AND id = $2`,
		uuid.UUID(parishID), uuid.UUID(decreeID))
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

func countByConcept(ctx context.Context, db *sql.DB, table string, conceptID domain.ConceptID) (int, error) {
	q := tx.Resolve(ctx, db)
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+table+` WHERE concept_id = $1`,
		uuid.UUID(conceptID)).Scan(&count)
	return count, err
}

func nullIfZeroTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func recordIDOrNil(id *domain.RecordID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*id), Valid: true}
}
