package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/agrogest/agrogest/internal/observability"
	"github.com/agrogest/agrogest/internal/platform/httpx"
	"github.com/agrogest/agrogest/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger     *slog.Logger
	Config     *Config
	Services   *Services
	JobHandler *jobs.Handler
	Metrics    *observability.Metrics
}

// NewRouter constructs the chi.Router with AgroGest defaults. Everything
// except login, health and metrics sits behind token authentication.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusMethodNotAllowed, "Method Not Allowed", "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	svc := params.Services
	r.Route("/auth", svc.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(svc.Gateway.RequireAuth)
		r.Route("/users", svc.AccountsHandler.MountRoutes)
		r.Route("/roles", svc.PermissionsHandler.MountRoutes)
		svc.FarmingHandler.MountRoutes(r)
		svc.MachineryHandler.MountRoutes(r)
		svc.StaffHandler.MountRoutes(r)
		svc.FinanceHandler.MountRoutes(r)
		svc.ProductionHandler.MountRoutes(r)
	})

	return r
}
