package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrogest/agrogest/internal/accounts"
	"github.com/agrogest/agrogest/internal/auth"
	"github.com/agrogest/agrogest/internal/rbac"
)

func TestBootstrapCreatesAdminOnce(t *testing.T) {
	f := newFixture(t)
	cfg := auth.BootstrapConfig{Username: "admin", Email: "admin@example.com", Password: "admin123"}

	res, err := auth.Bootstrap(context.Background(), f.accounts, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, accounts.Created, res)

	res, err = auth.Bootstrap(context.Background(), f.accounts, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, accounts.AlreadyExists, res)

	all, err := f.accounts.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, rbac.RoleAdmin, all[0].Role)
}

func TestBootstrapRejectsInvalidConfig(t *testing.T) {
	f := newFixture(t)
	_, err := auth.Bootstrap(context.Background(), f.accounts, auth.BootstrapConfig{Username: "admin", Email: "admin@example.com", Password: "x"}, nil)
	require.Error(t, err)
}
