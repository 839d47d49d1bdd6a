package staff

import (
	"log/slog"
	"net/http"
	"strconv"

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

// MountRoutes registers the employee and payment routes behind the auth gateway.
func (h *Handler) MountRoutes(r chi.Router) {
	view := h.rbac.RequireAny(rbac.ActionViewStaff, rbac.ActionManageStaff)
	manage := h.rbac.RequireAny(rbac.ActionManageStaff)

	r.With(manage).Post("/employees", h.createEmployee)
	r.With(view).Get("/employees", h.listEmployees)
	r.With(view).Get("/employees/{id}", h.getEmployee)
	r.With(manage).Post("/employees/{id}/deactivate", h.setActive(false))
	r.With(manage).Post("/employees/{id}/activate", h.setActive(true))

	r.With(manage).Post("/payments", h.recordPayment)
	r.With(view).Get("/employees/{id}/payments", h.listPayments)
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	var in CreateEmployeeInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	e, err := h.service.CreateEmployee(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create employee", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, e)
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))
	employees, err := h.service.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		h.fail(w, r, "list employees", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"employees": employees})
}

func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get employee", err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) setActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := h.service.SetActive(r.Context(), chi.URLParam(r, "id"), active)
		if err != nil {
			h.fail(w, r, "set employee active", err)
			return
		}
		httpx.JSON(w, http.StatusOK, e)
	}
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var in CreatePaymentInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.service.RecordPayment(r.Context(), in)
	if err != nil {
		h.fail(w, r, "record payment", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, total, err := h.service.Payments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "list payments", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payments": payments, "total_cents": total})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.Status(err) == http.StatusInternalServerError {
		h.logger.Error(op+" failed", slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}
