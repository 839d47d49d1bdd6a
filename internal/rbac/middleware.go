package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/agrogest/agrogest/internal/platform/httpx"
	"github.com/agrogest/agrogest/internal/shared"
)

var (
	// ErrPermissionDenied is returned when an authenticated role lacks the required action.
	ErrPermissionDenied = httpx.NewError(httpx.ErrForbidden, "permission denied")
	// ErrUnauthenticated is returned when no principal is attached to the request.
	ErrUnauthenticated = httpx.NewError(httpx.ErrUnauthorized, "invalid or missing token")
)

// Middleware wires RBAC authorization helpers for HTTP handlers.
type Middleware struct {
	Table  Table
	Logger *slog.Logger
}

// RequireAny ensures the current principal holds at least one of the actions.
func (m Middleware) RequireAny(actions ...Action) func(http.Handler) http.Handler {
	return m.require("require any", normalizeActions(actions), m.hasAnyPermission)
}

// RequireAll ensures the current principal holds every one of the actions.
func (m Middleware) RequireAll(actions ...Action) func(http.Handler) http.Handler {
	return m.require("require all", normalizeActions(actions), m.hasAllPermissions)
}

func (m Middleware) require(op string, required []Action, check func(Role, []Action) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := shared.PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.RespondError(w, ErrUnauthenticated)
				return
			}
			if len(required) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			role := Role(principal.Role)
			if check(role, required) {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("rbac "+op+" denied",
					slog.String("username", principal.Username),
					slog.String("role", principal.Role),
					slog.String("path", r.URL.Path))
			}
			httpx.RespondError(w, ErrPermissionDenied)
		})
	}
}

func normalizeActions(actions []Action) []Action {
	unique := make(map[Action]struct{}, len(actions))
	normalized := make([]Action, 0, len(actions))
	for _, a := range actions {
		a = Action(strings.TrimSpace(strings.ToLower(string(a))))
		if a == "" {
			continue
		}
		if _, seen := unique[a]; seen {
			continue
		}
		unique[a] = struct{}{}
		normalized = append(normalized, a)
	}
	return normalized
}

func (m Middleware) hasAnyPermission(role Role, required []Action) bool {
	for _, a := range required {
		if m.Table.HasPermission(role, a) {
			return true
		}
	}
	return false
}

func (m Middleware) hasAllPermissions(role Role, required []Action) bool {
	for _, a := range required {
		if !m.Table.HasPermission(role, a) {
			return false
		}
	}
	return true
}
