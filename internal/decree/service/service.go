// Package service implements the decree engine: the only writer of record
// state transitions. Corrections annul a partida and spawn its successor in
// one atomic step; replacements reconstruct lost entries through a two-step
// draft/finalize process. Deleting a decree is the exact inverse of issuing
// it.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"chancery/internal/audit"
	conceptmodels "chancery/internal/concept/models"
	decreemetrics "chancery/internal/decree/metrics"
	decreemodels "chancery/internal/decree/models"
	"chancery/internal/notify"
	recordmodels "chancery/internal/record/models"
	"chancery/pkg/domain"
	"chancery/pkg/requestcontext"
)

// RecordStore is the record repository the engine mutates.
type RecordStore interface {
	Get(ctx context.Context, parishID domain.ParishID, recordID domain.RecordID) (*recordmodels.SacramentRecord, error)
	Put(ctx context.Context, record *recordmodels.SacramentRecord) error
	Delete(ctx context.Context, parishID domain.ParishID, recordID domain.RecordID) error
	List(ctx context.Context, parishID domain.ParishID, sacramentType domain.SacramentType) ([]*recordmodels.SacramentRecord, error)
}

// CorrectionStore persists correction decrees.
type CorrectionStore interface {
	Get(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*decreemodels.CorrectionDecree, error)
	Put(ctx context.Context, decree *decreemodels.CorrectionDecree) error
	Delete(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) error
	List(ctx context.Context, parishID domain.ParishID) ([]*decreemodels.CorrectionDecree, error)
	CountByConcept(ctx context.Context, conceptID domain.ConceptID) (int, error)
}

// ReplacementStore persists replacement decrees.
type ReplacementStore interface {
	Get(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*decreemodels.ReplacementDecree, error)
	Put(ctx context.Context, decree *decreemodels.ReplacementDecree) error
	Delete(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) error
	List(ctx context.Context, parishID domain.ParishID) ([]*decreemodels.ReplacementDecree, error)
	CountByConcept(ctx context.Context, conceptID domain.ConceptID) (int, error)
}

// ConceptResolver loads annulment concepts from the diocesan registry.
type ConceptResolver interface {
	Resolve(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) (*conceptmodels.AnnulmentConcept, error)
}

// Auditor persists the decree audit trail alongside the structured log.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Engine orchestrates decree issuance and its inverse.
type Engine struct {
	records      RecordStore
	corrections  CorrectionStore
	replacements ReplacementStore
	concepts     ConceptResolver
	tx           StoreTx
	logger       *slog.Logger
	dispatcher   notify.Dispatcher
	audits       Auditor
	metrics      *decreemetrics.Metrics
	tracer       trace.Tracer
}

type Option func(e *Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithDispatcher(d notify.Dispatcher) Option {
	return func(e *Engine) {
		e.dispatcher = d
	}
}

func WithAuditor(a Auditor) Option {
	return func(e *Engine) {
		e.audits = a
	}
}

func WithMetrics(m *decreemetrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func WithStoreTx(tx StoreTx) Option {
	return func(e *Engine) {
		e.tx = tx
	}
}

// NewEngine constructs the decree engine. Without WithStoreTx it runs on the
// sharded in-memory transaction boundary.
func NewEngine(records RecordStore, corrections CorrectionStore, replacements ReplacementStore, concepts ConceptResolver, opts ...Option) *Engine {
	e := &Engine{
		records:      records,
		corrections:  corrections,
		replacements: replacements,
		concepts:     concepts,
		tracer:       otel.Tracer("chancery/decree"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.tx == nil {
		e.tx = NewShardedStoreTx()
	}
	return e
}

// ConceptReferences counts decrees of both kinds citing a concept. It backs
// the registry's referential delete guard.
type ConceptReferences struct {
	corrections  CorrectionStore
	replacements ReplacementStore
}

func NewConceptReferences(corrections CorrectionStore, replacements ReplacementStore) *ConceptReferences {
	return &ConceptReferences{corrections: corrections, replacements: replacements}
}

func (c *ConceptReferences) CountByConcept(ctx context.Context, _ domain.DioceseID, conceptID domain.ConceptID) (int, error) {
	corrections, err := c.corrections.CountByConcept(ctx, conceptID)
	if err != nil {
		return 0, err
	}
	replacements, err := c.replacements.CountByConcept(ctx, conceptID)
	if err != nil {
		return 0, err
	}
	return corrections + replacements, nil
}

// dispatch sends a decree notification without letting delivery problems
// reach the caller.
func (e *Engine) dispatch(ctx context.Context, parishID domain.ParishID, kind domain.DecreeKind, decreeID domain.DecreeID, action, message string) {
	if e.dispatcher == nil {
		return
	}
	n := notify.Notification{
		DecreeKind: kind,
		DecreeID:   decreeID,
		Action:     action,
		Message:    message,
		OccurredAt: requestcontext.Now(ctx),
	}
	if err := e.dispatcher.Notify(ctx, parishID, n); err != nil {
		e.logger.WarnContext(ctx, "decree notification dispatch failed",
			"parish_id", parishID,
			"decree_id", decreeID,
			"action", action,
			"error", err,
		)
	}
}

// emitAudit appends one event to the persistent audit trail. The trail is
// best effort; a failed append is logged and the operation result stands.
func (e *Engine) emitAudit(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID, action, detail string) {
	if e.audits == nil {
		return
	}
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Actor:     requestcontext.Actor(ctx),
		ParishID:  parishID,
		DecreeID:  decreeID,
		Action:    action,
		Detail:    detail,
	}
	if err := e.audits.Emit(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "audit trail append failed",
			"parish_id", parishID,
			"decree_id", decreeID,
			"action", action,
			"error", err,
		)
	}
}

func (e *Engine) logAudit(ctx context.Context, action string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", action, "log_type", "audit")
	e.logger.InfoContext(ctx, action, args...)
}

func (e *Engine) observe(operation string, start time.Time) {
	if e.metrics != nil {
		e.metrics.ObserveOperation(operation, time.Since(start))
	}
}
