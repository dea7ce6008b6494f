package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chancery/internal/diocese/service"
	"chancery/pkg/domain"
	"chancery/pkg/platform/httputil"
)

// Service is the diocese-wide read model the handler exposes.
type Service interface {
	ListDecrees(ctx context.Context, dioceseID domain.DioceseID) ([]service.AggregatedDecree, error)
}

type Handler struct {
	service Service
}

func New(service Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the diocese-wide decree listing.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dioceses/{dioceseID}/decrees", h.HandleListDecrees)
}

func (h *Handler) HandleListDecrees(w http.ResponseWriter, r *http.Request) {
	dioceseID, err := domain.ParseDioceseID(chi.URLParam(r, "dioceseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decrees, err := h.service.ListDecrees(r.Context(), dioceseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decrees)
}
