// Package rbactest drives permission-checked handlers without the auth gateway.
package rbactest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/agrogest/agrogest/internal/rbac"
	"github.com/agrogest/agrogest/internal/shared"
)

// RoleHeader carries the role the test principal is given.
const RoleHeader = "X-Test-Role"

// Client sends requests to routes mounted behind a principal injector.
type Client struct {
	t      *testing.T
	router http.Handler
}

// NewClient mounts routes in a group that turns RoleHeader into a principal.
// Requests without the header reach the routes unauthenticated.
func NewClient(t *testing.T, mount func(chi.Router)) *Client {
	t.Helper()
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if role := req.Header.Get(RoleHeader); role != "" {
					req = req.WithContext(shared.ContextWithPrincipal(req.Context(), &shared.Principal{Username: role, Role: role}))
				}
				next.ServeHTTP(w, req)
			})
		})
		mount(r)
	})
	return &Client{t: t, router: r}
}

// Do issues one request as role. An empty role sends no principal.
func (c *Client) Do(role rbac.Role, method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set(RoleHeader, string(role))
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

// MustCreate issues a request that must answer 201 and returns the new id.
func (c *Client) MustCreate(role rbac.Role, path, body string) string {
	c.t.Helper()
	rec := c.Do(role, http.MethodPost, path, body)
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(c.t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotEmpty(c.t, created.ID)
	return created.ID
}
