package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chancery/internal/concept/models"
	"chancery/internal/concept/service"
	"chancery/pkg/domain"
	"chancery/pkg/platform/httputil"
	"chancery/pkg/requestcontext"
)

// Service defines the registry operations the handler exposes.
type Service interface {
	List(ctx context.Context, dioceseID domain.DioceseID) ([]*models.AnnulmentConcept, error)
	Create(ctx context.Context, dioceseID domain.DioceseID, req service.CreateConceptRequest) (*models.AnnulmentConcept, error)
	Update(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID, req service.UpdateConceptRequest) (*models.AnnulmentConcept, error)
	Resolve(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) (*models.AnnulmentConcept, error)
	Delete(ctx context.Context, dioceseID domain.DioceseID, conceptID domain.ConceptID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the concept registry under a diocese scope.
func (h *Handler) Register(r chi.Router) {
	r.Route("/dioceses/{dioceseID}/concepts", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{conceptID}", h.HandleGet)
		r.Patch("/{conceptID}", h.HandleUpdate)
		r.Delete("/{conceptID}", h.HandleDelete)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dioceseID, err := domain.ParseDioceseID(chi.URLParam(r, "dioceseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	concepts, err := h.service.List(ctx, dioceseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, concepts)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dioceseID, err := domain.ParseDioceseID(chi.URLParam(r, "dioceseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.Decode[service.CreateConceptRequest](w, r)
	if !ok {
		return
	}

	concept, err := h.service.Create(ctx, dioceseID, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "concept creation failed",
			"request_id", requestcontext.RequestID(ctx),
			"codigo", req.Codigo,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, concept)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dioceseID, conceptID, err := pathIDs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	concept, err := h.service.Resolve(ctx, dioceseID, conceptID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, concept)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dioceseID, conceptID, err := pathIDs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.Decode[service.UpdateConceptRequest](w, r)
	if !ok {
		return
	}

	concept, err := h.service.Update(ctx, dioceseID, conceptID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, concept)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dioceseID, conceptID, err := pathIDs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, dioceseID, conceptID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathIDs(r *http.Request) (domain.DioceseID, domain.ConceptID, error) {
	dioceseID, err := domain.ParseDioceseID(chi.URLParam(r, "dioceseID"))
	if err != nil {
		return domain.DioceseID{}, domain.ConceptID{}, err
	}
	conceptID, err := domain.ParseConceptID(chi.URLParam(r, "conceptID"))
	if err != nil {
		return domain.DioceseID{}, domain.ConceptID{}, err
	}
	return dioceseID, conceptID, nil
}
