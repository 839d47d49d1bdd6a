package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/agrogest/agrogest/internal/rbac"
	"github.com/agrogest/agrogest/internal/shared"
)

func serve(t *testing.T, mw func(http.Handler) http.Handler, principal *shared.Principal) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/farms", nil)
	if principal != nil {
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, called
}

func TestRequireAny(t *testing.T) {
	m := rbac.Middleware{Table: rbac.DefaultTable()}
	mw := m.RequireAny(rbac.ActionViewFarms, rbac.ActionManageFarms)

	rec, called := serve(t, mw, &shared.Principal{Username: "admin", Role: string(rbac.RoleAdmin)})
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, called = serve(t, mw, &shared.Principal{Username: "viewer", Role: string(rbac.RoleViewer)})
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, called = serve(t, mw, &shared.Principal{Username: "op", Role: string(rbac.RoleOperator)})
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "permission denied")
}

func TestRequireAll(t *testing.T) {
	m := rbac.Middleware{Table: rbac.DefaultTable()}
	mw := m.RequireAll(rbac.ActionViewActivities, rbac.ActionUpdateActivities)

	_, called := serve(t, mw, &shared.Principal{Role: string(rbac.RoleOperator)})
	assert.True(t, called)

	rec, called := serve(t, mw, &shared.Principal{Role: string(rbac.RoleViewer)})
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMissingPrincipalIsUnauthorized(t *testing.T) {
	m := rbac.Middleware{Table: rbac.DefaultTable()}

	rec, called := serve(t, m.RequireAny(rbac.ActionViewFarms), nil)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, called = serve(t, m.RequireAll(), nil)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownRoleDenied(t *testing.T) {
	m := rbac.Middleware{Table: rbac.DefaultTable()}
	rec, called := serve(t, m.RequireAny(rbac.ActionViewFarms), &shared.Principal{Role: "superuser"})
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPermissionsHandlerListsRoles(t *testing.T) {
	table := rbac.DefaultTable()
	h := rbac.NewPermissionsHandler(nil, table, rbac.Middleware{Table: table})
	r := chiRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.ContextWithPrincipal(req.Context(), &shared.Principal{Role: string(rbac.RoleAdmin)}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"agronomist"`)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.ContextWithPrincipal(req.Context(), &shared.Principal{Role: string(rbac.RoleManager)}))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func chiRouter(h *rbac.PermissionsHandler) http.Handler {
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}
