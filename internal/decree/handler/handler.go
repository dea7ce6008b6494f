package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	decreemodels "chancery/internal/decree/models"
	"chancery/internal/decree/service"
	"chancery/pkg/domain"
	"chancery/pkg/platform/httputil"
	"chancery/pkg/requestcontext"
)

// Service is the decree engine surface the handler exposes.
type Service interface {
	CreateCorrection(ctx context.Context, req service.CreateCorrectionRequest) (*service.CreateCorrectionResult, error)
	UpdateCorrection(ctx context.Context, dioceseID domain.DioceseID, parishID domain.ParishID, decreeID domain.DecreeID, patch service.CorrectionPatch) (*decreemodels.CorrectionDecree, error)
	DeleteCorrection(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*service.DeleteCorrectionResult, error)
	GetCorrection(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*decreemodels.CorrectionDecree, error)
	ListCorrections(ctx context.Context, parishID domain.ParishID) ([]*decreemodels.CorrectionDecree, error)

	CreateReplacement(ctx context.Context, req service.CreateReplacementRequest) (*decreemodels.ReplacementDecree, error)
	AttachNewRecord(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID, newRecordID domain.RecordID) (*decreemodels.ReplacementDecree, error)
	UpdateReplacement(ctx context.Context, dioceseID domain.DioceseID, parishID domain.ParishID, decreeID domain.DecreeID, patch service.ReplacementPatch) (*decreemodels.ReplacementDecree, error)
	DeleteReplacement(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*service.DeleteReplacementResult, error)
	GetReplacement(ctx context.Context, parishID domain.ParishID, decreeID domain.DecreeID) (*decreemodels.ReplacementDecree, error)
	ListReplacements(ctx context.Context, parishID domain.ParishID) ([]*decreemodels.ReplacementDecree, error)
}

// Handler wires decree endpoints to the engine.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the decree endpoints under a parish scope.
func (h *Handler) Register(r chi.Router) {
	r.Route("/dioceses/{dioceseID}/parishes/{parishID}", func(r chi.Router) {
		r.Route("/corrections", func(r chi.Router) {
			r.Get("/", h.HandleListCorrections)
			r.Post("/", h.HandleCreateCorrection)
			r.Get("/{decreeID}", h.HandleGetCorrection)
			r.Patch("/{decreeID}", h.HandleUpdateCorrection)
			r.Delete("/{decreeID}", h.HandleDeleteCorrection)
		})
		r.Route("/replacements", func(r chi.Router) {
			r.Get("/", h.HandleListReplacements)
			r.Post("/", h.HandleCreateReplacement)
			r.Get("/{decreeID}", h.HandleGetReplacement)
			r.Patch("/{decreeID}", h.HandleUpdateReplacement)
			r.Delete("/{decreeID}", h.HandleDeleteReplacement)
			r.Post("/{decreeID}/record", h.HandleAttachRecord)
		})
	})
}

func (h *Handler) HandleCreateCorrection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dioceseID, parishID, err := scopeIDs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	wire, ok := httputil.Decode[createCorrectionRequest](w, r)
	if !ok {
		return
	}
	req, err := wire.toService(dioceseID, parishID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.CreateCorrection(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "correction decree creation failed",
			"request_id", requestcontext.RequestID(ctx),
			"parish_id", parishID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) HandleListCorrections(w http.ResponseWriter, r *http.Request) {
	_, parishID, err := scopeIDs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	decrees, err := h.service.ListCorrections(r.Context(), parishID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decrees)
}

func (h *Handler) HandleGetCorrection(w http.ResponseWriter, r *http.Request) {
	_, parishID, decreeID, err := decreeScope(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	decree, err := h.service.GetCorrection(r.Context(), parishID, decreeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decree)
}

func (h *Handler) HandleUpdateCorrection(w http.ResponseWriter, r *http.Request) {
	dioceseID, parishID, decreeID, err := decreeScope(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	wire, ok := httputil.Decode[correctionPatchRequest](w, r)
	if !ok {
		return
	}
	patch, err := wire.toService()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decree, err := h.service.UpdateCorrection(r.Context(), dioceseID, parishID, decreeID, patch)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decree)
}

func (h *Handler) HandleDeleteCorrection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, parishID, decreeID, err := decreeScope(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.DeleteCorrection(ctx, parishID, decreeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleCreateReplacement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dioceseID, parishID, err := scopeIDs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	wire, ok := httputil.Decode[createReplacementRequest](w, r)
	if !ok {
		return
	}
	req, err := wire.toService(dioceseID, parishID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decree, err := h.service.CreateReplacement(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "replacement decree creation failed",
			"request_id", requestcontext.RequestID(ctx),
			"parish_id", parishID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, decree)
}

func (h *Handler) HandleListReplacements(w http.ResponseWriter, r *http.Request) {
	_, parishID, err := scopeIDs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	decrees, err := h.service.ListReplacements(r.Context(), parishID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decrees)
}

func (h *Handler) HandleGetReplacement(w http.ResponseWriter, r *http.Request) {
	_, parishID, decreeID, err := decreeScope(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	decree, err := h.service.GetReplacement(r.Context(), parishID, decreeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decree)
}

func (h *Handler) HandleUpdateReplacement(w http.ResponseWriter, r *http.Request) {
	dioceseID, parishID, decreeID, err := decreeScope(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	wire, ok := httputil.Decode[replacementPatchRequest](w, r)
	if !ok {
		return
	}
	patch, err := wire.toService()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decree, err := h.service.UpdateReplacement(r.Context(), dioceseID, parishID, decreeID, patch)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decree)
}

func (h *Handler) HandleDeleteReplacement(w http.ResponseWriter, r *http.Request) {
	_, parishID, decreeID, err := decreeScope(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.DeleteReplacement(r.Context(), parishID, decreeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleAttachRecord(w http.ResponseWriter, r *http.Request) {
	_, parishID, decreeID, err := decreeScope(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	wire, ok := httputil.Decode[attachRecordRequest](w, r)
	if !ok {
		return
	}
	newRecordID, err := domain.ParseRecordID(wire.NewRecordID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decree, err := h.service.AttachNewRecord(r.Context(), parishID, decreeID, newRecordID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decree)
}

func scopeIDs(r *http.Request) (domain.DioceseID, domain.ParishID, error) {
	dioceseID, err := domain.ParseDioceseID(chi.URLParam(r, "dioceseID"))
	if err != nil {
		return domain.DioceseID{}, domain.ParishID{}, err
	}
	parishID, err := domain.ParseParishID(chi.URLParam(r, "parishID"))
	if err != nil {
		return domain.DioceseID{}, domain.ParishID{}, err
	}
	return dioceseID, parishID, nil
}

func decreeScope(r *http.Request) (domain.DioceseID, domain.ParishID, domain.DecreeID, error) {
	dioceseID, parishID, err := scopeIDs(r)
	if err != nil {
		return domain.DioceseID{}, domain.ParishID{}, domain.DecreeID{}, err
	}
	decreeID, err := domain.ParseDecreeID(chi.URLParam(r, "decreeID"))
	if err != nil {
		return domain.DioceseID{}, domain.ParishID{}, domain.DecreeID{}, err
	}
	return dioceseID, parishID, decreeID, nil
}
