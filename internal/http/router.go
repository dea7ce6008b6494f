// Package httpapi assembles the chancery HTTP surface: one chi router with
// the shared middleware chain, the authenticated parish-scoped routes, and
// the admin-guarded configuration routes.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chancery/internal/platform/metrics"
	"chancery/internal/platform/middleware"
)

const requestTimeout = 30 * time.Second

// Registrar is implemented by every module handler.
type Registrar interface {
	Register(r chi.Router)
}

// Options carries everything the router needs. Nil metrics disables the
// latency middleware; an empty AdminToken closes the admin routes entirely.
type Options struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Validator  middleware.JWTValidator
	AdminToken string

	// Records, Decrees and Diocese mount behind bearer auth.
	Records Registrar
	Decrees Registrar
	Diocese Registrar
	// Parishes and Concepts are chancery configuration, admin-token guarded.
	Parishes Registrar
	Concepts Registrar

	// Health reports backend readiness for /healthz. Nil means always ready.
	Health func() error
}

// NewRouter builds the full route tree.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.LatencyMiddleware(opts.Metrics))

	r.Get("/healthz", handleHealth(opts.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(opts.Validator, logger))
		mount(r, opts.Records, opts.Decrees, opts.Diocese)
	})

	// Chancery configuration lives under /admin so its route tree never
	// overlaps the parish-scoped one.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(opts.AdminToken))
		mount(r, opts.Parishes, opts.Concepts)
	})

	return r
}

func mount(r chi.Router, registrars ...Registrar) {
	for _, reg := range registrars {
		if reg != nil {
			reg.Register(r)
		}
	}
}

func handleHealth(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
