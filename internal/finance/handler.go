package finance

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

// MountRoutes registers the finance routes behind the auth gateway. The
// summary is also open to report viewers.
func (h *Handler) MountRoutes(r chi.Router) {
	view := h.rbac.RequireAny(rbac.ActionViewFinance, rbac.ActionManageFinance)
	manage := h.rbac.RequireAny(rbac.ActionManageFinance)

	r.With(manage).Post("/suppliers", h.createSupplier)
	r.With(view).Get("/suppliers", h.listSuppliers)
	r.With(view).Get("/suppliers/{id}", h.getSupplier)

	r.With(manage).Post("/expenses", h.createExpense)
	r.With(view).Get("/expenses", h.listExpenses)
	r.With(manage).Post("/expenses/{id}/pay", h.payExpense)

	r.With(manage).Post("/income", h.createIncome)
	r.With(view).Get("/income", h.listIncome)
	r.With(manage).Post("/income/{id}/receive", h.receiveIncome)

	r.With(h.rbac.RequireAny(rbac.ActionViewFinance, rbac.ActionManageFinance, rbac.ActionViewReports)).
		Get("/finance/summary", h.summary)
}

func filterFrom(r *http.Request) Filter {
	q := r.URL.Query()
	return Filter{From: q.Get("from"), To: q.Get("to"), Category: q.Get("category")}
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var in CreateSupplierInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	sup, err := h.service.CreateSupplier(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create supplier", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sup)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.ListSuppliers(r.Context())
	if err != nil {
		h.fail(w, r, "list suppliers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"suppliers": suppliers})
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	sup, err := h.service.GetSupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get supplier", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sup)
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var in CreateExpenseInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	e, err := h.service.CreateExpense(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create expense", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, e)
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.service.ListExpenses(r.Context(), filterFrom(r))
	if err != nil {
		h.fail(w, r, "list expenses", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

func (h *Handler) payExpense(w http.ResponseWriter, r *http.Request) {
	var in MarkPaidInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	e, err := h.service.MarkExpensePaid(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, "pay expense", err)
		return
	}
	httpx.JSON(w, http.StatusOK, e)
}

func (h *Handler) createIncome(w http.ResponseWriter, r *http.Request) {
	var in CreateIncomeInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	inc, err := h.service.CreateIncome(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create income", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inc)
}

func (h *Handler) listIncome(w http.ResponseWriter, r *http.Request) {
	income, err := h.service.ListIncome(r.Context(), filterFrom(r))
	if err != nil {
		h.fail(w, r, "list income", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"income": income})
}

func (h *Handler) receiveIncome(w http.ResponseWriter, r *http.Request) {
	inc, err := h.service.MarkIncomeReceived(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "receive income", err)
		return
	}
	httpx.JSON(w, http.StatusOK, inc)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Summarize(r.Context(), filterFrom(r))
	if err != nil {
		h.fail(w, r, "finance summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.Status(err) == http.StatusInternalServerError {
		h.logger.Error(op+" failed", slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}
