// Package httpapi assembles the HTTP surface: middleware stack, health and
// metrics endpoints, and the authenticated identity routes.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	identityhandler "shutterops/internal/identity/handler"
	"shutterops/internal/platform/metrics"
	"shutterops/internal/platform/middleware"
)

// Deps carries everything the router needs. Metrics may be nil in tests.
type Deps struct {
	Identity       *identityhandler.Handler
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	SigningKey     string
	RequestTimeout time.Duration
}

// NewRouter wires the full middleware stack and mounts all endpoints.
// Admin routes live under /admin and get the role gate on top of auth.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Latency(deps.Metrics))
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.SigningKey, deps.Logger))
		deps.Identity.Register(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(middleware.RoleAdmin, deps.Logger))
			deps.Identity.RegisterAdmin(r)
		})
	})

	return r
}
