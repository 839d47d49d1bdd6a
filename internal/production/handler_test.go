package production

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrogest/agrogest/internal/rbac"
	"github.com/agrogest/agrogest/internal/rbac/rbactest"
)

func newClient(t *testing.T) *rbactest.Client {
	h := NewHandler(nil, newTestService(), rbac.Middleware{Table: rbac.DefaultTable()})
	return rbactest.NewClient(t, h.MountRoutes)
}

func TestHandlerProduction(t *testing.T) {
	c := newClient(t)
	id := c.MustCreate(rbac.RoleAgronomist, "/production", `{"product":"Coffee","quantity":80,"unit":"sc","sale_value_cents":4000000}`)

	assert.Equal(t, http.StatusForbidden, c.Do(rbac.RoleViewer, http.MethodPost, "/production", `{"product":"x","quantity":1}`).Code)
	assert.Equal(t, http.StatusForbidden, c.Do(rbac.RoleOperator, http.MethodGet, "/production", "").Code)
	assert.Equal(t, http.StatusOK, c.Do(rbac.RoleViewer, http.MethodGet, "/production/"+id, "").Code)

	rec := c.Do(rbac.RoleViewer, http.MethodGet, "/production/totals", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Totals []ProductTotals `json:"totals"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Totals, 1)
	assert.Equal(t, int64(4000000), body.Totals[0].ProfitCents)

	assert.Equal(t, http.StatusForbidden, c.Do(rbac.RoleViewer, http.MethodDelete, "/production/"+id, "").Code)
	assert.Equal(t, http.StatusNoContent, c.Do(rbac.RoleManager, http.MethodDelete, "/production/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, c.Do(rbac.RoleViewer, http.MethodGet, "/production/"+id, "").Code)
}
