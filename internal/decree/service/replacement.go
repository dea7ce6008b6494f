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
	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
	"chancery/pkg/platform/sentinel"
	platformstrings "chancery/pkg/platform/strings"
	"chancery/pkg/requestcontext"
)

// CreateReplacementRequest drafts a decree authorizing reconstruction of a
// partida whose physical book entry is gone.
type CreateReplacementRequest struct {
	DioceseID         domain.DioceseID `json:"diocese_id"`
	ParishID          domain.ParishID  `json:"parish_id"`
	DecreeNumber      string           `json:"decree_number"`
	DecreeDate        time.Time        `json:"decree_date"`
	Causa             string           `json:"causa"`
	SacramentType     string           `json:"sacrament_type"`
	OriginalLocator   domain.Locator   `json:"original_locator"`
	SubjectName       string           `json:"subject_name"`
	ConceptID         domain.ConceptID `json:"concept_id"`
	DescripcionHechos string           `json:"descripcion_hechos,omitempty"`
	Autoridad         string           `json:"autoridad,omitempty"`
	Testigos          []string         `json:"testigos,omitempty"`
}

// ReplacementPatch updates decree metadata and narrative fields. Status and
// the linked record are only reachable through AttachNewRecord and delete.
type ReplacementPatch struct {
	DecreeNumber      *string           `json:"decree_number,omitempty"`
	DecreeDate        *time.Time        `json:"decree_date,omitempty"`
	Causa             *string           `json:"causa,omitempty"`
	ConceptID         *domain.ConceptID `json:"concept_id,omitempty"`
	SubjectName       *string           `json:"subject_name,omitempty"`
	DescripcionHechos *string           `json:"descripcion_hechos,omitempty"`
	Autoridad         *string           `json:"autoridad,omitempty"`
	Testigos          *[]string         `json:"testigos,omitempty"`
}

// DeleteReplacementResult reports inconsistencies tolerated while unwinding.
type DeleteReplacementResult struct {
	Warnings []decreemodels.IntegrityWarning `json:"warnings,omitempty"`
}

// CreateReplacement drafts a replacement decree. No record is touched: the
// reconstructed partida arrives later through AttachNewRecord.
func (e *Engine) CreateReplacement(ctx context.Context, req CreateReplacementRequest) (*decreemodels.ReplacementDecree, error) {
	start := time.Now()
	defer e.observe("create_replacement", start)

	ctx, span := e.tracer.Start(ctx, "decree.CreateReplacement",
		trace.WithAttributes(attribute.String("parish_id", req.ParishID.String())))
	defer span.End()

	if req.DioceseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "diocese id is required")
	}
	causa, err := decreemodels.ParseReplacementCause(req.Causa)
	if err != nil {
		return nil, err
	}
	sacramentType, err := domain.ParseSacramentType(req.SacramentType)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}

	if _, err := e.concepts.Resolve(ctx, req.DioceseID, req.ConceptID); err != nil {
		return nil, err
	}

	var decree *decreemodels.ReplacementDecree
	err = e.tx.RunInTx(ctx, req.ParishID, func(txCtx context.Context) error {
		d, err := decreemodels.NewReplacementDecree(
			domain.DecreeID(uuid.New()), req.ParishID,
			strings.TrimSpace(req.DecreeNumber), req.DecreeDate,
			causa, sacramentType, req.OriginalLocator,
			req.SubjectName, req.ConceptID,
			requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		d.DescripcionHechos = strings.TrimSpace(req.DescripcionHechos)
		d.Autoridad = strings.TrimSpace(req.Autoridad)
		d.Testigos = platformstrings.DedupeAndTrim(req.Testigos)

		if err := e.replacements.Put(txCtx, d); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store replacement decree")
		}
		decree = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.IncrementIssued(string(domain.DecreeKindReplacement))
	}
	e.logAudit(ctx, audit.ActionReplacementCreated,
		"parish_id", req.ParishID,
		"decree_id", decree.ID,
		"decree_number", decree.DecreeNumber,
		"causa", string(decree.Causa),
	)
	e.emitAudit(ctx, req.ParishID, decree.ID, audit.ActionReplacementCreated,
		"Decreto de reposición N.º "+decree.DecreeNumber+" emitido (borrador)")
	e.dispatch(ctx, req.ParishID, domain.DecreeKindReplacement, decree.ID,
		audit.ActionReplacementCreated,
		"Decreto de reposición N.º "+decree.DecreeNumber+" emitido (borrador)")

	return decree, nil
}

// AttachNewRecord links the reconstructed partida to a draft decree and
// finalizes it. Attaching to an already finalized decree conflicts.
func (e *Engine) AttachNewRecord(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID, newRecordID domain.RecordID) (*decreemodels.ReplacementDecree, error) {
	start := time.Now()
	defer e.observe("attach_new_record", start)

	ctx, span := e.tracer.Start(ctx, "decree.AttachNewRecord")
	defer span.End()

	if newRecordID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "new record id is required")
	}

	var decree *decreemodels.ReplacementDecree
	err := e.tx.RunInTx(ctx, parishID, func(txCtx context.Context) error {
		d, err := e.replacements.Get(txCtx, parishID, decreeID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "replacement decree not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load replacement decree")
		}
		if err := d.CanAttach(); err != nil {
			return dErrors.New(dErrors.CodeConflict, "replacement decree is already finalized")
		}

		record, err := e.records.Get(txCtx, parishID, newRecordID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "reconstructed record not found in parish")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reconstructed record")
		}
		if record.SacramentType != d.SacramentType {
			return dErrors.New(dErrors.CodeInvariantViolation, "reconstructed record sacrament type does not match the decree")
		}
		if !record.IsActive() {
			return dErrors.New(dErrors.CodeConflict, "reconstructed record is not active")
		}

		before := record.Clone()
		now := requestcontext.Now(txCtx)
		record.MarginalNote = note.Generate(note.TemplateReposicionNuevaPartida, note.Params{
			DecreeNumber:    d.DecreeNumber,
			DecreeDate:      d.DateText(),
			Causa:           string(d.Causa),
			OriginalLocator: d.OriginalLocator,
		})
		record.UpdatedAt = now

		d.ApplyAttach(newRecordID, now)

		var undo []func()
		fail := func(err error) error {
			for i := len(undo) - 1; i >= 0; i-- {
				undo[i]()
			}
			return err
		}

		if err := e.records.Put(txCtx, record); err != nil {
			return fail(dErrors.Wrap(err, dErrors.CodeInternal, "failed to annotate reconstructed record"))
		}
		undo = append(undo, func() { _ = e.records.Put(txCtx, before) })

		if err := e.replacements.Put(txCtx, d); err != nil {
			return fail(dErrors.Wrap(err, dErrors.CodeInternal, "failed to store replacement decree"))
		}
		decree = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logAudit(ctx, audit.ActionRecordAttached,
		"parish_id", parishID,
		"decree_id", decreeID,
		"new_record_id", newRecordID,
	)
	e.emitAudit(ctx, parishID, decreeID, audit.ActionRecordAttached,
		"Partida repuesta asentada; decreto N.º "+decree.DecreeNumber+" finalizado")
	e.dispatch(ctx, parishID, domain.DecreeKindReplacement, decreeID,
		audit.ActionRecordAttached,
		"Partida repuesta asentada; decreto N.º "+decree.DecreeNumber+" finalizado")

	return decree, nil
}

// UpdateReplacement patches decree metadata and narrative fields.
func (e *Engine) UpdateReplacement(ctx context.Context, dioceseID domain.DioceseID, parishID domain.ParishID, decreeID domain.DecreeID, patch ReplacementPatch) (*decreemodels.ReplacementDecree, error) {
	start := time.Now()
	defer e.observe("update_replacement", start)

	ctx, span := e.tracer.Start(ctx, "decree.UpdateReplacement")
	defer span.End()

	var updated *decreemodels.ReplacementDecree
	err := e.tx.RunInTx(ctx, parishID, func(txCtx context.Context) error {
		decree, err := e.replacements.Get(txCtx, parishID, decreeID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "replacement decree not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load replacement decree")
		}

		if patch.DecreeNumber != nil {
			if strings.TrimSpace(*patch.DecreeNumber) == "" {
				return dErrors.New(dErrors.CodeValidation, "decree number is required")
			}
			decree.DecreeNumber = strings.TrimSpace(*patch.DecreeNumber)
		}
		if patch.DecreeDate != nil {
			decree.DecreeDate = *patch.DecreeDate
		}
		if patch.Causa != nil {
			causa, err := decreemodels.ParseReplacementCause(*patch.Causa)
			if err != nil {
				return err
			}
			decree.Causa = causa
		}
		if patch.ConceptID != nil {
			if _, err := e.concepts.Resolve(txCtx, dioceseID, *patch.ConceptID); err != nil {
				return err
			}
			decree.ConceptID = *patch.ConceptID
		}
		if patch.SubjectName != nil {
			if strings.TrimSpace(*patch.SubjectName) == "" {
				return dErrors.New(dErrors.CodeValidation, "subject name is required")
			}
			decree.SubjectName = strings.TrimSpace(*patch.SubjectName)
		}
		if patch.DescripcionHechos != nil {
			decree.DescripcionHechos = strings.TrimSpace(*patch.DescripcionHechos)
		}
		if patch.Autoridad != nil {
			decree.Autoridad = strings.TrimSpace(*patch.Autoridad)
		}
		if patch.Testigos != nil {
			decree.Testigos = platformstrings.DedupeAndTrim(*patch.Testigos)
		}
		decree.UpdatedAt = requestcontext.Now(txCtx)

		if err := e.replacements.Put(txCtx, decree); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store replacement decree")
		}
		updated = decree
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logAudit(ctx, audit.ActionReplacementUpdated,
		"parish_id", parishID,
		"decree_id", decreeID,
	)
	e.emitAudit(ctx, parishID, decreeID, audit.ActionReplacementUpdated,
		"Decreto de reposición N.º "+updated.DecreeNumber+" actualizado")
	e.dispatch(ctx, parishID, domain.DecreeKindReplacement, decreeID,
		audit.ActionReplacementUpdated,
		"Decreto de reposición N.º "+updated.DecreeNumber+" actualizado")

	return updated, nil
}

// DeleteReplacement removes the decree and, when finalized, the partida it
// spawned. A missing linked record is tolerated and reported as a warning.
func (e *Engine) DeleteReplacement(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*DeleteReplacementResult, error) {
	start := time.Now()
	defer e.observe("delete_replacement", start)

	ctx, span := e.tracer.Start(ctx, "decree.DeleteReplacement")
	defer span.End()

	result := &DeleteReplacementResult{}
	err := e.tx.RunInTx(ctx, parishID, func(txCtx context.Context) error {
		decree, err := e.replacements.Get(txCtx, parishID, decreeID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "replacement decree not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load replacement decree")
		}

		if decree.IsFinalized() && decree.NewRecordID != nil {
			if err := e.records.Delete(txCtx, parishID, *decree.NewRecordID); err != nil {
				if !errors.Is(err, sentinel.ErrNotFound) {
					return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete reconstructed record")
				}
				result.Warnings = append(result.Warnings, decreemodels.IntegrityWarning{
					Code:    decreemodels.WarningNewRecordMissing,
					Message: "reconstructed record was already removed",
				})
			}
		}

		if err := e.replacements.Delete(txCtx, parishID, decreeID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete replacement decree")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.IncrementDeleted(string(domain.DecreeKindReplacement))
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
	e.logAudit(ctx, audit.ActionReplacementDeleted,
		"parish_id", parishID,
		"decree_id", decreeID,
	)
	e.emitAudit(ctx, parishID, decreeID, audit.ActionReplacementDeleted,
		"Decreto de reposición revocado")
	e.dispatch(ctx, parishID, domain.DecreeKindReplacement, decreeID,
		audit.ActionReplacementDeleted,
		"Decreto de reposición revocado")

	return result, nil
}

// GetReplacement loads one replacement decree.
func (e *Engine) GetReplacement(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*decreemodels.ReplacementDecree, error) {
	decree, err := e.replacements.Get(ctx, parishID, decreeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "replacement decree not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load replacement decree")
	}
	return decree, nil
}

// ListReplacements returns the parish's replacement decrees.
func (e *Engine) ListReplacements(ctx context.Context, parishID domain.ParishID) ([]*decreemodels.ReplacementDecree, error) {
	decrees, err := e.replacements.List(ctx, parishID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list replacement decrees")
	}
	return decrees, nil
}
