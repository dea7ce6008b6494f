package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chancery/internal/audit"
	decreemodels "chancery/internal/decree/models"
	"chancery/internal/note"
	recordmodels "chancery/internal/record/models"
	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
	"chancery/pkg/platform/sentinel"
	"chancery/pkg/requestcontext"
)

// CreateCorrectionRequest carries everything a correction decree needs: the
// partida to annul, the corrected partida's content, and the decree header.
type CreateCorrectionRequest struct {
	DioceseID        domain.DioceseID     `json:"diocese_id"`
	ParishID         domain.ParishID      `json:"parish_id"`
	OriginalRecordID domain.RecordID      `json:"original_record_id"`
	NewLocator       domain.Locator       `json:"new_locator"`
	NewPayload       recordmodels.Payload `json:"new_payload"`
	ConceptID        domain.ConceptID     `json:"concept_id"`
	DecreeNumber     string               `json:"decree_number"`
	DecreeDate       time.Time            `json:"decree_date"`
}

// NewPartidaSummary tells the caller where the corrected partida landed.
type NewPartidaSummary struct {
	RecordID domain.RecordID `json:"record_id"`
	Book     string          `json:"book"`
	Folio    string          `json:"folio"`
	Entry    string          `json:"entry"`
}

// CreateCorrectionResult is the outcome of issuing a correction decree.
type CreateCorrectionResult struct {
	Decree     *decreemodels.CorrectionDecree `json:"decree"`
	NewPartida NewPartidaSummary              `json:"new_partida"`
}

// CorrectionPatch updates decree metadata and/or the corrected partida's
// payload. The linked record ids and the original snapshot are not
// reachable through a patch.
type CorrectionPatch struct {
	DecreeNumber *string               `json:"decree_number,omitempty"`
	DecreeDate   *time.Time            `json:"decree_date,omitempty"`
	ConceptID    *domain.ConceptID     `json:"concept_id,omitempty"`
	NewPayload   *recordmodels.Payload `json:"new_payload,omitempty"`
}

// DeleteCorrectionResult reports any inconsistencies tolerated while
// unwinding the decree.
type DeleteCorrectionResult struct {
	Warnings []decreemodels.IntegrityWarning `json:"warnings,omitempty"`
}

// CreateCorrection issues a correction decree: it snapshots and annuls the
// original partida, creates the corrected partida, and records the decree
// linking them, all in one transaction.
func (e *Engine) CreateCorrection(ctx context.Context, req CreateCorrectionRequest) (*CreateCorrectionResult, error) {
	start := time.Now()
	defer e.observe("create_correction", start)

	ctx, span := e.tracer.Start(ctx, "decree.CreateCorrection",
		trace.WithAttributes(attribute.String("parish_id", req.ParishID.String())))
	defer span.End()

	if err := validateCreateCorrection(req); err != nil {
		return nil, err
	}

	// Resolved outside the transaction: a missing concept must fail the
	// operation before any record is touched, never default silently.
	concept, err := e.concepts.Resolve(ctx, req.DioceseID, req.ConceptID)
	if err != nil {
		return nil, err
	}

	var result *CreateCorrectionResult
	err = e.tx.RunInTx(ctx, req.ParishID, func(txCtx context.Context) error {
		original, err := e.records.Get(txCtx, req.ParishID, req.OriginalRecordID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "original record not found in parish")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load original record")
		}
		// A missing original and an inactive one answer the same way: there
		// is no correctable partida at that id.
		if err := original.CanAnnul(); err != nil {
			return dErrors.New(dErrors.CodeNotFound, "original record is not active in parish")
		}

		snapshot := original.Clone()
		now := requestcontext.Now(txCtx)
		newRecordID := domain.RecordID(uuid.New())

		noteParams := note.Params{
			DecreeNumber:    req.DecreeNumber,
			DecreeDate:      dateText(req.DecreeDate),
			IssuingOffice:   concept.Expide,
			NewLocator:      req.NewLocator,
			OriginalLocator: original.Locator,
		}

		newRecord, err := recordmodels.NewRecord(
			newRecordID, req.ParishID, original.SacramentType,
			req.NewLocator, req.NewPayload, now)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
			}
			return err
		}
		newRecord.SupersedesRecordID = &snapshot.ID
		newRecord.MarginalNote = note.Render(note.Context{
			HasCorrectionDecreeRef: true,
			HasOriginalPartidaRef:  true,
		}, noteParams)

		original.ApplyAnnulment(newRecordID, now)
		// A concept configured with the estandar template carries no real
		// override, so the annulled-record wording still applies.
		annulCtx := note.Context{Annulled: true, HasDecreeFields: true}
		if concept.NotaAlMargenID != note.TemplateEstandar {
			annulCtx.ConceptTemplate = concept.NotaAlMargenID
		}
		original.MarginalNote = note.Render(annulCtx, noteParams)

		decree, err := decreemodels.NewCorrectionDecree(
			domain.DecreeID(uuid.New()), req.ParishID,
			req.DecreeNumber, req.DecreeDate, req.ConceptID,
			snapshot, newRecordID, now)
		if err != nil {
			return err
		}

		// Memory stores apply writes immediately, so a failure part-way is
		// unwound by compensation. Under SQL the rollback makes the undo a
		// no-op.
		var undo []func()
		fail := func(err error) error {
			for i := len(undo) - 1; i >= 0; i-- {
				undo[i]()
			}
			return err
		}

		if err := e.records.Put(txCtx, original); err != nil {
			return fail(dErrors.Wrap(err, dErrors.CodeInternal, "failed to annul original record"))
		}
		undo = append(undo, func() { _ = e.records.Put(txCtx, snapshot) })

		if err := e.records.Put(txCtx, newRecord); err != nil {
			return fail(dErrors.Wrap(err, dErrors.CodeInternal, "failed to create corrected record"))
		}
		undo = append(undo, func() { _ = e.records.Delete(txCtx, req.ParishID, newRecordID) })

		if err := e.corrections.Put(txCtx, decree); err != nil {
			return fail(dErrors.Wrap(err, dErrors.CodeInternal, "failed to store correction decree"))
		}

		result = &CreateCorrectionResult{
			Decree: decree,
			NewPartida: NewPartidaSummary{
				RecordID: newRecordID,
				Book:     newRecord.Locator.Book,
				Folio:    newRecord.Locator.Folio,
				Entry:    newRecord.Locator.Entry,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.IncrementIssued(string(domain.DecreeKindCorrection))
	}
	e.logAudit(ctx, audit.ActionCorrectionCreated,
		"parish_id", req.ParishID,
		"decree_id", result.Decree.ID,
		"decree_number", result.Decree.DecreeNumber,
		"original_record_id", req.OriginalRecordID,
		"new_record_id", result.NewPartida.RecordID,
	)
	e.emitAudit(ctx, req.ParishID, result.Decree.ID, audit.ActionCorrectionCreated,
		"Decreto de corrección N.º "+result.Decree.DecreeNumber+" emitido")
	e.dispatch(ctx, req.ParishID, domain.DecreeKindCorrection, result.Decree.ID,
		audit.ActionCorrectionCreated,
		"Decreto de corrección N.º "+result.Decree.DecreeNumber+" emitido")

	return result, nil
}

// UpdateCorrection patches decree metadata and, optionally, the corrected
// partida's payload. Record identities and statuses never change here.
func (e *Engine) UpdateCorrection(ctx context.Context, dioceseID domain.DioceseID, parishID domain.ParishID, decreeID domain.DecreeID, patch CorrectionPatch) (*decreemodels.CorrectionDecree, error) {
	start := time.Now()
	defer e.observe("update_correction", start)

	ctx, span := e.tracer.Start(ctx, "decree.UpdateCorrection")
	defer span.End()

	var updated *decreemodels.CorrectionDecree
	err := e.tx.RunInTx(ctx, parishID, func(txCtx context.Context) error {
		decree, err := e.corrections.Get(txCtx, parishID, decreeID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "correction decree not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load correction decree")
		}

		now := requestcontext.Now(txCtx)
		if patch.DecreeNumber != nil {
			if strings.TrimSpace(*patch.DecreeNumber) == "" {
				return dErrors.New(dErrors.CodeValidation, "decree number is required")
			}
			decree.DecreeNumber = strings.TrimSpace(*patch.DecreeNumber)
		}
		if patch.DecreeDate != nil {
			decree.DecreeDate = *patch.DecreeDate
		}
		if patch.ConceptID != nil {
			if _, err := e.concepts.Resolve(txCtx, dioceseID, *patch.ConceptID); err != nil {
				return err
			}
			decree.ConceptID = *patch.ConceptID
		}

		if patch.NewPayload != nil {
			newRecord, err := e.records.Get(txCtx, parishID, decree.NewRecordID)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					return dErrors.New(dErrors.CodeInvariantViolation, "corrected record is missing")
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load corrected record")
			}
			if err := patch.NewPayload.Validate(newRecord.SacramentType); err != nil {
				return err
			}
			newRecord.Payload = patch.NewPayload.Clone()
			newRecord.UpdatedAt = now
			if err := e.records.Put(txCtx, newRecord); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update corrected record")
			}
		}

		decree.UpdatedAt = now
		if err := e.corrections.Put(txCtx, decree); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store correction decree")
		}
		updated = decree
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logAudit(ctx, audit.ActionCorrectionUpdated,
		"parish_id", parishID,
		"decree_id", decreeID,
	)
	e.emitAudit(ctx, parishID, decreeID, audit.ActionCorrectionUpdated,
		"Decreto de corrección N.º "+updated.DecreeNumber+" actualizado")
	e.dispatch(ctx, parishID, domain.DecreeKindCorrection, decreeID,
		audit.ActionCorrectionUpdated,
		"Decreto de corrección N.º "+updated.DecreeNumber+" actualizado")

	return updated, nil
}

// DeleteCorrection is the exact inverse of CreateCorrection: the original
// partida is restored from its snapshot, the corrected partida is removed,
// and the decree disappears. A corrected partida that is already gone is
// tolerated and reported as an integrity warning.
func (e *Engine) DeleteCorrection(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*DeleteCorrectionResult, error) {
	start := time.Now()
	defer e.observe("delete_correction", start)

	ctx, span := e.tracer.Start(ctx, "decree.DeleteCorrection")
	defer span.End()

	result := &DeleteCorrectionResult{}
	err := e.tx.RunInTx(ctx, parishID, func(txCtx context.Context) error {
		decree, err := e.corrections.Get(txCtx, parishID, decreeID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				// Idempotent: a second delete finds nothing and changes
				// nothing.
				return dErrors.New(dErrors.CodeNotFound, "correction decree not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load correction decree")
		}

		// A corrected partida that a later decree has since annulled keeps
		// this decree pinned: deleting it would orphan the later decree and
		// leave two active partidas for the same entry. Chains unwind from
		// the newest decree backwards.
		corrected, err := e.records.Get(txCtx, parishID, decree.NewRecordID)
		switch {
		case err == nil:
			if !corrected.IsActive() {
				return dErrors.New(dErrors.CodeConflict,
					"corrected record is annulled by a later decree; revoke that decree first")
			}
		case !errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load corrected record")
		}

		if _, err := e.records.Get(txCtx, parishID, decree.Original.RecordID); err != nil {
			if !errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load original record")
			}
			result.Warnings = append(result.Warnings, decreemodels.IntegrityWarning{
				Code:    decreemodels.WarningOriginalMissing,
				Message: "annulled original was missing; restored from decree snapshot",
			})
		}

		// Writing the snapshot back restores the exact pre-annulment image,
		// including the marginal note and timestamps.
		restored := decree.Original.Record.Clone()
		if err := e.records.Put(txCtx, restored); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to restore original record")
		}

		if err := e.records.Delete(txCtx, parishID, decree.NewRecordID); err != nil {
			if !errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete corrected record")
			}
			result.Warnings = append(result.Warnings, decreemodels.IntegrityWarning{
				Code:    decreemodels.WarningNewRecordMissing,
				Message: "corrected record was already removed",
			})
		}

		if err := e.corrections.Delete(txCtx, parishID, decreeID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete correction decree")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.IncrementDeleted(string(domain.DecreeKindCorrection))
	}
	for _, w := range result.Warnings {
		if e.metrics != nil {
			e.metrics.IncrementWarning(w.Code)
		}
		e.logAudit(ctx, audit.ActionIntegrityWarning,
			"parish_id", parishID,
			"decree_id", decreeID,
			"warning_code", w.Code,
			"warning", w.Message,
		)
		e.emitAudit(ctx, parishID, decreeID, audit.ActionIntegrityWarning, w.Message)
	}
	e.logAudit(ctx, audit.ActionCorrectionDeleted,
		"parish_id", parishID,
		"decree_id", decreeID,
	)
	e.emitAudit(ctx, parishID, decreeID, audit.ActionCorrectionDeleted,
		"Decreto de corrección revocado; partida original restaurada")
	e.dispatch(ctx, parishID, domain.DecreeKindCorrection, decreeID,
		audit.ActionCorrectionDeleted,
		"Decreto de corrección revocado; partida original restaurada")

	return result, nil
}

// GetCorrection loads one correction decree.
func (e *Engine) GetCorrection(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*decreemodels.CorrectionDecree, error) {
	decree, err := e.corrections.Get(ctx, parishID, decreeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "correction decree not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load correction decree")
	}
	return decree, nil
}

// ListCorrections returns the parish's correction decrees.
func (e *Engine) ListCorrections(ctx context.Context, parishID domain.ParishID) ([]*decreemodels.CorrectionDecree, error) {
	decrees, err := e.corrections.List(ctx, parishID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list correction decrees")
	}
	return decrees, nil
}

func validateCreateCorrection(req CreateCorrectionRequest) error {
	if req.DioceseID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "diocese id is required")
	}
	if req.ParishID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "parish id is required")
	}
	if req.OriginalRecordID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "original record id is required")
	}
	if strings.TrimSpace(req.DecreeNumber) == "" {
		return dErrors.New(dErrors.CodeValidation, "decree number is required")
	}
	if req.ConceptID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "concept id is required")
	}
	if err := req.NewLocator.Validate(); err != nil {
		return err
	}
	return nil
}

func dateText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
