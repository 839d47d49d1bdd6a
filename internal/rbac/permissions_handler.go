package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrogest/agrogest/internal/platform/httpx"
)

// RolePermissions is one row of the permission table as served over HTTP.
type RolePermissions struct {
	Role    Role     `json:"role"`
	Actions []Action `json:"actions"`
}

// PermissionsHandler serves the permission table.
type PermissionsHandler struct {
	logger *slog.Logger
	table  Table
	rbac   Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, table Table, rbac Middleware) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, table: table, rbac: rbac}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(ActionManageRoles))
		r.Get("/", h.listRoles)
	})
}

func (h *PermissionsHandler) listRoles(w http.ResponseWriter, r *http.Request) {
	rows := make([]RolePermissions, 0, len(Roles()))
	for _, role := range Roles() {
		rows = append(rows, RolePermissions{Role: role, Actions: h.table.Actions(role)})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": rows})
}
