// Package service exposes the sacramental register itself: direct creation
// of partidas and the read views the chancery screens consume. Mutations of
// decree-referenced records go through the decree engine, never through here.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	decreemodels "chancery/internal/decree/models"
	"chancery/internal/note"
	"chancery/internal/record/models"
	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
	"chancery/pkg/platform/sentinel"
	"chancery/pkg/requestcontext"
)

// RecordStore is the repository the ledger reads and writes.
type RecordStore interface {
	Get(ctx context.Context, parishID domain.ParishID, recordID domain.RecordID) (*models.SacramentRecord, error)
	Put(ctx context.Context, record *models.SacramentRecord) error
	List(ctx context.Context, parishID domain.ParishID, sacramentType domain.SacramentType) ([]*models.SacramentRecord, error)
}

// ReplacementLookup lists the parish's replacement decrees so the read path
// can tell a replaced original apart from a plainly annulled one.
type ReplacementLookup interface {
	List(ctx context.Context, parishID domain.ParishID) ([]*decreemodels.ReplacementDecree, error)
}

// View is a partida as the screens show it: the stored record plus the
// derived display label and the resolved marginal-note text.
type View struct {
	*models.SacramentRecord
	StatusLabel  string `json:"status_label"`
	MarginalText string `json:"marginal_text"`
}

// Ledger serves the record read and direct-entry paths.
type Ledger struct {
	records      RecordStore
	replacements ReplacementLookup
	logger       *slog.Logger
}

type Option func(l *Ledger)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithReplacementLookup enables the "replaced" display label. Without it
// every annulled partida is labelled annulled.
func WithReplacementLookup(lookup ReplacementLookup) Option {
	return func(l *Ledger) {
		l.replacements = lookup
	}
}

func NewLedger(records RecordStore, opts ...Option) *Ledger {
	l := &Ledger{records: records}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// CreateRecordRequest carries a direct register entry, outside any decree.
type CreateRecordRequest struct {
	SacramentType string
	Locator       domain.Locator
	Payload       models.Payload
	MarginalNote  string
}

// Create enters a new partida directly into the register. Reconstructed
// partidas for replacement decrees are created this way and then attached.
func (l *Ledger) Create(ctx context.Context, parishID domain.ParishID, req CreateRecordRequest) (*models.SacramentRecord, error) {
	sacramentType, err := domain.ParseSacramentType(req.SacramentType)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown sacrament type")
	}

	record, err := models.NewRecord(
		domain.RecordID(uuid.New()), parishID, sacramentType,
		req.Locator, req.Payload, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	record.MarginalNote = req.MarginalNote

	if err := l.records.Put(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create record")
	}

	l.logger.InfoContext(ctx, "partida registered",
		"record_id", record.ID,
		"parish_id", parishID,
		"sacrament_type", sacramentType,
		"locator", record.Locator.String(),
		"log_type", "audit",
	)
	return record, nil
}

// Get returns the display view of one partida.
func (l *Ledger) Get(ctx context.Context, parishID domain.ParishID, recordID domain.RecordID) (*View, error) {
	record, err := l.records.Get(ctx, parishID, recordID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load record")
	}
	return l.view(ctx, record), nil
}

// List returns the display views for one register of the parish, ordered by
// locator.
func (l *Ledger) List(ctx context.Context, parishID domain.ParishID, sacramentType string) ([]*View, error) {
	st, err := domain.ParseSacramentType(sacramentType)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown sacrament type")
	}

	records, err := l.records.List(ctx, parishID, st)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records")
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Locator.String() < records[j].Locator.String()
	})

	views := make([]*View, 0, len(records))
	for _, record := range records {
		views = append(views, l.view(ctx, record))
	}
	return views, nil
}

// view derives the label and note text for one record. Lookup failures
// degrade to the plain annulled label rather than failing the read.
func (l *Ledger) view(ctx context.Context, record *models.SacramentRecord) *View {
	return &View{
		SacramentRecord: record,
		StatusLabel:     record.StatusLabel(l.supersededByReplacement(ctx, record)),
		MarginalText:    note.Render(note.Context{FreeText: record.MarginalNote}, note.Params{}),
	}
}

func (l *Ledger) supersededByReplacement(ctx context.Context, record *models.SacramentRecord) bool {
	if l.replacements == nil || record.SupersededByRecordID == nil {
		return false
	}
	decrees, err := l.replacements.List(ctx, record.ParishID)
	if err != nil {
		l.logger.WarnContext(ctx, "failed to resolve superseding decree kind",
			"record_id", record.ID, "error", err)
		return false
	}
	for _, d := range decrees {
		if d.NewRecordID != nil && *d.NewRecordID == *record.SupersededByRecordID {
			return true
		}
	}
	return false
}
