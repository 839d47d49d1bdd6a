package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/agrogest/agrogest/internal/platform/httpx"
	"github.com/agrogest/agrogest/internal/rbac"
	"github.com/agrogest/agrogest/internal/shared"
)

// PasswordChanger replaces the password of the calling account.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, username, current, next string) error
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	gateway   *Gateway
	passwords PasswordChanger
	table     rbac.Table
	validator *validator.Validate
	loginRate int
}

// NewHandler constructs a Handler instance. loginRate caps login attempts per
// client IP and minute; zero disables the limit.
func NewHandler(logger *slog.Logger, gateway *Gateway, passwords PasswordChanger, table rbac.Table, loginRate int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		gateway:   gateway,
		passwords: passwords,
		table:     table,
		validator: httpx.NewValidator(),
		loginRate: loginRate,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.loginRate > 0 {
			r.Use(httprate.Limit(h.loginRate, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "too many login attempts")
				})))
		}
		r.Post("/login", h.handleLogin)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gateway.RequireAuth)
		r.Get("/me", h.handleMe)
		r.Post("/password", h.handleChangePassword)
	})
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(in); err != nil {
		httpx.RespondError(w, httpx.ValidationError(err))
		return
	}
	in.RemoteAddr = r.RemoteAddr

	tok, err := h.gateway.Login(r.Context(), in)
	if err != nil {
		if httpx.Status(err) == http.StatusInternalServerError {
			h.logger.Error("login", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{Token: tok.Value, TokenType: "Bearer", ExpiresAt: tok.ExpiresAt})
}

type meResponse struct {
	shared.Principal
	Actions []rbac.Action `json:"actions"`
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	if p == nil {
		httpx.RespondError(w, ErrInvalidToken)
		return
	}
	httpx.JSON(w, http.StatusOK, meResponse{Principal: *p, Actions: h.table.Actions(rbac.Role(p.Role))})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,max=128"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	if p == nil {
		httpx.RespondError(w, ErrInvalidToken)
		return
	}
	var req changePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ValidationError(err))
		return
	}
	if err := h.passwords.ChangePassword(r.Context(), p.Username, req.CurrentPassword, req.NewPassword); err != nil {
		if httpx.Status(err) == http.StatusInternalServerError {
			h.logger.Error("change password", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	h.gateway.publish(r.Context(), shared.EventPasswordChanged, p.AccountID, p.Username, r.RemoteAddr)
	w.WriteHeader(http.StatusNoContent)
}
