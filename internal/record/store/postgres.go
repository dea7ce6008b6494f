package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"chancery/internal/record/models"
	"chancery/pkg/domain"
	"chancery/pkg/platform/sentinel"
	"chancery/pkg/platform/tx"
)

// Postgres persists records in the records table. The payload is stored as
// jsonb so each register keeps its own shape without per-sacrament tables.
// All statements resolve the querier through pkg/platform/tx so they join
// the decree engine's transaction when one is open.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const recordColumns = `id, parish_id, sacrament_type, status, book, folio, entry,
	payload, marginal_note, superseded_by_record_id, supersedes_record_id,
	created_at, updated_at`

func (s *Postgres) Get(ctx context.Context, parishID domain.ParishID, recordID domain.RecordID) (*models.SacramentRecord, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE parish_id = $1 AND id = $2`,
		uuid.UUID(parishID), uuid.UUID(recordID))
	return scanRecord(row)
}

func (s *Postgres) Put(ctx context.Context, record *models.SacramentRecord) error {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return fmt.Errorf("marshal record payload: %w", err)
	}

	q := tx.Resolve(ctx, s.db)
	_, err = q.ExecContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			book = EXCLUDED.book,
			folio = EXCLUDED.folio,
			entry = EXCLUDED.entry,
			payload = EXCLUDED.payload,
			marginal_note = EXCLUDED.marginal_note,
			superseded_by_record_id = EXCLUDED.superseded_by_record_id,
			supersedes_record_id = EXCLUDED.supersedes_record_id,
			updated_at = EXCLUDED.updated_at`,
		uuid.UUID(record.ID),
		uuid.UUID(record.ParishID),
		record.SacramentType.String(),
		string(record.Status),
		record.Locator.Book,
		record.Locator.Folio,
		record.Locator.Entry,
		payload,
		nullIfEmpty(record.MarginalNote),
		recordIDOrNil(record.SupersededByRecordID),
		recordIDOrNil(record.SupersedesRecordID),
		record.CreatedAt,
		record.UpdatedAt,
	)
	return err
}

func (s *Postgres) Delete(ctx context.Context, parishID domain.ParishID, recordID domain.RecordID) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx,
		`DELETE FROM records WHERE parish_id = $1 AND id = $2`,
		uuid.UUID(parishID), uuid.UUID(recordID))
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

func (s *Postgres) List(ctx context.Context, parishID domain.ParishID, sacramentType domain.SacramentType) ([]*models.SacramentRecord, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE parish_id = $1 AND sacrament_type = $2`,
		uuid.UUID(parishID), sacramentType.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.SacramentRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.SacramentRecord, error) {
	var (
		record       models.SacramentRecord
		id           uuid.UUID
		parishID     uuid.UUID
		sacrament    string
		status       string
		payload      []byte
		marginalNote sql.NullString
		supersededBy uuid.NullUUID
		supersedes   uuid.NullUUID
	)
	err := row.Scan(&id, &parishID, &sacrament, &status,
		&record.Locator.Book, &record.Locator.Folio, &record.Locator.Entry,
		&payload, &marginalNote, &supersededBy, &supersedes,
		&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}

	record.ID = domain.RecordID(id)
	record.ParishID = domain.ParishID(parishID)
	record.SacramentType = domain.SacramentType(sacrament)
	record.Status = models.RecordStatus(status)
	record.MarginalNote = marginalNote.String
	if supersededBy.Valid {
		v := domain.RecordID(supersededBy.UUID)
		record.SupersededByRecordID = &v
	}
	if supersedes.Valid {
		v := domain.RecordID(supersedes.UUID)
		record.SupersedesRecordID = &v
	}
	if err := json.Unmarshal(payload, &record.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal record payload: %w", err)
	}
	return &record, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func recordIDOrNil(id *domain.RecordID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*id), Valid: true}
}
