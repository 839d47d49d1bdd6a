package machinery

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

// MountRoutes registers the machine routes behind the auth gateway.
func (h *Handler) MountRoutes(r chi.Router) {
	view := h.rbac.RequireAny(rbac.ActionViewMachinery, rbac.ActionManageMachinery)
	manage := h.rbac.RequireAny(rbac.ActionManageMachinery)

	r.With(manage).Post("/machines", h.createMachine)
	r.With(view).Get("/machines", h.listMachines)
	r.With(view).Get("/machines/{id}", h.getMachine)
	r.With(manage).Put("/machines/{id}/status", h.updateStatus)

	r.With(manage).Post("/maintenance", h.logMaintenance)
	r.With(view).Get("/machines/{id}/maintenance", h.listMaintenance)
}

func (h *Handler) createMachine(w http.ResponseWriter, r *http.Request) {
	var in CreateMachineInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	m, err := h.service.CreateMachine(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create machine", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

func (h *Handler) listMachines(w http.ResponseWriter, r *http.Request) {
	machines, err := h.service.ListMachines(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, "list machines", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"machines": machines})
}

func (h *Handler) getMachine(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetMachine(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get machine", err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var in UpdateMachineStatusInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	m, err := h.service.UpdateMachineStatus(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, "update machine status", err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) logMaintenance(w http.ResponseWriter, r *http.Request) {
	var in CreateMaintenanceInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	rec, err := h.service.LogMaintenance(r.Context(), in)
	if err != nil {
		h.fail(w, r, "log maintenance", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) listMaintenance(w http.ResponseWriter, r *http.Request) {
	records, total, err := h.service.MaintenanceHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "list maintenance", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"maintenance": records, "total_cost_cents": total})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.Status(err) == http.StatusInternalServerError {
		h.logger.Error(op+" failed", slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}
