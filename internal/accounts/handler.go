package accounts

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agrogest/agrogest/internal/platform/httpx"
	"github.com/agrogest/agrogest/internal/rbac"
	"github.com/agrogest/agrogest/internal/shared"
)

// Handler serves account administration routes.
type Handler struct {
	logger  *slog.Logger
	service *Service
	audit   shared.AuditPublisher
	rbac    rbac.Middleware
}

// NewHandler constructs a Handler. A nil publisher disables audit events.
func NewHandler(logger *slog.Logger, service *Service, audit shared.AuditPublisher, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if audit == nil {
		audit = shared.NopAuditPublisher{}
	}
	return &Handler{logger: logger, service: service, audit: audit, rbac: rbac}
}

// MountRoutes registers account routes. Every route requires manage_users.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.ActionManageUsers))
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{username}", h.get)
		r.Post("/{username}/deactivate", h.deactivate)
		r.Post("/{username}/password", h.resetPassword)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, "list accounts", err)
		return
	}
	if accounts == nil {
		accounts = []Account{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": accounts})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in NewAccount
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	account, err := h.service.CreateAccount(r.Context(), in)
	if err != nil {
		h.fail(w, r, "create account", err)
		return
	}
	h.publish(r, shared.EventAccountCreated, account, map[string]any{"role": string(account.Role)})
	httpx.JSON(w, http.StatusCreated, account)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, "get account", err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.Deactivate(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, "deactivate account", err)
		return
	}
	h.publish(r, shared.EventAccountDeactivated, account, nil)
	httpx.JSON(w, http.StatusOK, account)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	username := chi.URLParam(r, "username")
	if err := h.service.ResetPassword(r.Context(), username, req.Password); err != nil {
		h.fail(w, r, "reset password", err)
		return
	}
	if account, err := h.service.Get(r.Context(), username); err == nil {
		h.publish(r, shared.EventPasswordChanged, account, map[string]any{"reset": true})
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.Status(err) == http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}

func (h *Handler) publish(r *http.Request, event string, account Account, meta map[string]any) {
	actor := ""
	if p := shared.PrincipalFromContext(r.Context()); p != nil {
		actor = p.AccountID
	}
	if meta == nil {
		meta = map[string]any{}
	}
	meta["username"] = account.Username
	entry := shared.AuditLog{
		ActorID:  actor,
		Action:   event,
		Entity:   "account",
		EntityID: account.ID,
		Meta:     meta,
		At:       time.Now().UTC(),
	}
	ctx := context.WithoutCancel(r.Context())
	if err := h.audit.Publish(ctx, entry); err != nil {
		h.logger.Warn("publish audit event", slog.String("event", event), slog.Any("error", err))
	}
}
