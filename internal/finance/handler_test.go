package finance

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

func TestHandlerFinancePermissions(t *testing.T) {
	c := newClient(t)
	c.MustCreate(rbac.RoleManager, "/suppliers", `{"name":"Fuel Co"}`)

	assert.Equal(t, http.StatusConflict, c.Do(rbac.RoleAdmin, http.MethodPost, "/suppliers", `{"name":"FUEL CO"}`).Code)
	for _, role := range []rbac.Role{rbac.RoleAgronomist, rbac.RoleOperator, rbac.RoleViewer} {
		assert.Equal(t, http.StatusForbidden, c.Do(role, http.MethodGet, "/expenses", "").Code, role)
	}
	// report viewers see the summary but not the ledger
	assert.Equal(t, http.StatusOK, c.Do(rbac.RoleAgronomist, http.MethodGet, "/finance/summary", "").Code)
	assert.Equal(t, http.StatusForbidden, c.Do(rbac.RoleViewer, http.MethodGet, "/finance/summary", "").Code)
}

func TestHandlerExpenseAndIncomeFlow(t *testing.T) {
	c := newClient(t)

	expenseID := c.MustCreate(rbac.RoleManager, "/expenses",
		`{"description":"fertilizer","amount_cents":70000,"date":"2024-06-03","category":"inputs","paid":false}`)
	c.MustCreate(rbac.RoleManager, "/income", `{"description":"milk","amount_cents":90000,"date":"2024-06-05"}`)

	rec := c.Do(rbac.RoleManager, http.MethodPost, "/expenses/"+expenseID+"/pay", `{"paid_on":"2024-06-10"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var paid Expense
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&paid))
	assert.True(t, paid.Paid)
	assert.Equal(t, string(rbac.RoleManager), paid.CreatedBy)

	rec = c.Do(rbac.RoleManager, http.MethodGet, "/expenses?from=2024-06-01&to=2024-06-30", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Expenses []Expense `json:"expenses"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Expenses, 1)

	rec = c.Do(rbac.RoleManager, http.MethodGet, "/finance/summary?from=2024-06-01&to=2024-06-30", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sum Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sum))
	assert.Equal(t, int64(20000), sum.BalanceCents)
	assert.Zero(t, sum.PendingExpenseCents)

	assert.Equal(t, http.StatusBadRequest, c.Do(rbac.RoleManager, http.MethodGet, "/income?from=june", "").Code)
	assert.Equal(t, http.StatusNotFound, c.Do(rbac.RoleManager, http.MethodPost, "/income/nope/receive", "").Code)
}
