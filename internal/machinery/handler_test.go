package machinery

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

func TestHandlerMachinePermissions(t *testing.T) {
	c := newClient(t)
	id := c.MustCreate(rbac.RoleManager, "/machines", `{"name":"Tractor","year":2015}`)

	assert.Equal(t, http.StatusOK, c.Do(rbac.RoleOperator, http.MethodGet, "/machines", "").Code)
	assert.Equal(t, http.StatusOK, c.Do(rbac.RoleViewer, http.MethodGet, "/machines/"+id, "").Code)
	assert.Equal(t, http.StatusOK, c.Do(rbac.RoleAdmin, http.MethodGet, "/machines", "").Code)
	assert.Equal(t, http.StatusForbidden, c.Do(rbac.RoleOperator, http.MethodPost, "/machines", `{"name":"x"}`).Code)
	assert.Equal(t, http.StatusForbidden,
		c.Do(rbac.RoleAgronomist, http.MethodPut, "/machines/"+id+"/status", `{"status":"inactive"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, c.Do("", http.MethodGet, "/machines", "").Code)

	rec := c.Do(rbac.RoleManager, http.MethodPut, "/machines/"+id+"/status", `{"status":"maintenance"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.Do(rbac.RoleViewer, http.MethodGet, "/machines?status=maintenance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Machines []Machine `json:"machines"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Machines, 1)
	assert.Equal(t, id, body.Machines[0].ID)

	assert.Equal(t, http.StatusNotFound, c.Do(rbac.RoleViewer, http.MethodGet, "/machines/missing", "").Code)
	assert.Equal(t, http.StatusBadRequest, c.Do(rbac.RoleViewer, http.MethodGet, "/machines?status=gone", "").Code)
}

func TestHandlerMaintenance(t *testing.T) {
	c := newClient(t)
	id := c.MustCreate(rbac.RoleManager, "/machines", `{"name":"Harvester"}`)

	c.MustCreate(rbac.RoleManager, "/maintenance",
		`{"machine_id":"`+id+`","date":"2024-05-01","description":"filters","cost_cents":12000,"responsible":"Joao"}`)
	assert.Equal(t, http.StatusForbidden, c.Do(rbac.RoleOperator, http.MethodPost, "/maintenance",
		`{"machine_id":"`+id+`","date":"2024-05-01","description":"filters"}`).Code)
	assert.Equal(t, http.StatusNotFound, c.Do(rbac.RoleManager, http.MethodPost, "/maintenance",
		`{"machine_id":"1b4e28ba-2fa1-41d2-883f-0016d3cca427","date":"2024-05-01","description":"filters"}`).Code)

	rec := c.Do(rbac.RoleOperator, http.MethodGet, "/machines/"+id+"/maintenance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Maintenance    []MaintenanceRecord `json:"maintenance"`
		TotalCostCents int64               `json:"total_cost_cents"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Maintenance, 1)
	assert.Equal(t, "Joao", body.Maintenance[0].Responsible)
	assert.Equal(t, int64(12000), body.TotalCostCents)
}
