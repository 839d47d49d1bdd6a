package production

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrogest/agrogest/internal/platform/httpx"
	"github.com/agrogest/agrogest/internal/rbac"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers the production routes behind the auth gateway.
func (h *Handler) MountRoutes(r chi.Router) {
	view := h.rbac.RequireAny(rbac.ActionViewProduction, rbac.ActionManageProduction)
	manage := h.rbac.RequireAny(rbac.ActionManageProduction)

	r.With(manage).Post("/production", h.create)
	r.With(view).Get("/production", h.list)
	r.With(h.rbac.RequireAny(rbac.ActionViewProduction, rbac.ActionManageProduction, rbac.ActionViewReports)).
		Get("/production/totals", h.totals)
	r.With(view).Get("/production/{id}", h.get)
	r.With(manage).Delete("/production/{id}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateRecordInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	rec, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create production record", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context(), r.URL.Query().Get("product"))
	if err != nil {
		h.fail(w, r, "list production", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"production": records})
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.service.Totals(r.Context())
	if err != nil {
		h.fail(w, r, "production totals", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"totals": totals})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get production record", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete production record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.Status(err) == http.StatusInternalServerError {
		h.logger.Error(op+" failed", slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}
