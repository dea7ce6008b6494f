package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chancery/internal/record/models"
	"chancery/internal/record/service"
	"chancery/pkg/domain"
	dErrors "chancery/pkg/domain-errors"
	"chancery/pkg/platform/httputil"
	"chancery/pkg/requestcontext"
)

// Service defines the register operations the handler exposes.
type Service interface {
	Create(ctx context.Context, parishID domain.ParishID, req service.CreateRecordRequest) (*models.SacramentRecord, error)
	Get(ctx context.Context, parishID domain.ParishID, recordID domain.RecordID) (*service.View, error)
	List(ctx context.Context, parishID domain.ParishID, sacramentType string) ([]*service.View, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the register under a parish scope.
func (h *Handler) Register(r chi.Router) {
	r.Route("/dioceses/{dioceseID}/parishes/{parishID}/records", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{recordID}", h.HandleGet)
	})
}

type createRecordRequest struct {
	SacramentType string         `json:"sacrament_type"`
	Locator       domain.Locator `json:"locator"`
	Payload       models.Payload `json:"payload"`
	MarginalNote  string         `json:"marginal_note,omitempty"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parishID, err := domain.ParseParishID(chi.URLParam(r, "parishID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.Decode[createRecordRequest](w, r)
	if !ok {
		return
	}

	record, err := h.service.Create(ctx, parishID, service.CreateRecordRequest{
		SacramentType: req.SacramentType,
		Locator:       req.Locator,
		Payload:       req.Payload,
		MarginalNote:  req.MarginalNote,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "record creation failed",
			"request_id", requestcontext.RequestID(ctx),
			"parish_id", parishID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parishID, err := domain.ParseParishID(chi.URLParam(r, "parishID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	recordID, err := domain.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.service.Get(ctx, parishID, recordID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parishID, err := domain.ParseParishID(chi.URLParam(r, "parishID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	sacramentType := r.URL.Query().Get("sacrament")
	if sacramentType == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "sacrament query parameter is required"))
		return
	}

	views, err := h.service.List(ctx, parishID, sacramentType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, views)
}
