package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chancery/internal/parish/models"
	"chancery/pkg/domain"
	"chancery/pkg/platform/httputil"
)

// Service is the directory surface the handler exposes.
type Service interface {
	Create(ctx context.Context, dioceseID domain.DioceseID, name, city string) (*models.Parish, error)
	Get(ctx context.Context, dioceseID domain.DioceseID, parishID domain.ParishID) (*models.Parish, error)
	List(ctx context.Context, dioceseID domain.DioceseID) ([]*models.Parish, error)
	Deactivate(ctx context.Context, dioceseID domain.DioceseID, parishID domain.ParishID) (*models.Parish, error)
	Reactivate(ctx context.Context, dioceseID domain.DioceseID, parishID domain.ParishID) (*models.Parish, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type createParishRequest struct {
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// Register mounts the parish directory under a diocese scope.
func (h *Handler) Register(r chi.Router) {
	r.Route("/dioceses/{dioceseID}/parishes", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{parishID}", h.HandleGet)
		r.Post("/{parishID}/deactivate", h.HandleDeactivate)
		r.Post("/{parishID}/reactivate", h.HandleReactivate)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	dioceseID, err := domain.ParseDioceseID(chi.URLParam(r, "dioceseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	parishes, err := h.service.List(r.Context(), dioceseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, parishes)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	dioceseID, err := domain.ParseDioceseID(chi.URLParam(r, "dioceseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[createParishRequest](w, r)
	if !ok {
		return
	}
	parish, err := h.service.Create(r.Context(), dioceseID, req.Name, req.City)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, parish)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	dioceseID, parishID, err := pathIDs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	parish, err := h.service.Get(r.Context(), dioceseID, parishID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, parish)
}

func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	dioceseID, parishID, err := pathIDs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	parish, err := h.service.Deactivate(r.Context(), dioceseID, parishID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, parish)
}

func (h *Handler) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	dioceseID, parishID, err := pathIDs(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	parish, err := h.service.Reactivate(r.Context(), dioceseID, parishID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, parish)
}

func pathIDs(r *http.Request) (domain.DioceseID, domain.ParishID, error) {
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
