package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agrogest/agrogest/internal/accounts"
	"github.com/agrogest/agrogest/internal/rbac"
)

// Ensurer creates an account unless it already exists.
type Ensurer interface {
	EnsureAccount(ctx context.Context, in accounts.NewAccount) (accounts.EnsureResult, accounts.Account, error)
}

// BootstrapConfig names the administrator created at startup.
type BootstrapConfig struct {
	Username string
	Email    string
	Password string
}

// Bootstrap makes sure the administrator account exists. An existing account
// is left untouched.
func Bootstrap(ctx context.Context, ensurer Ensurer, cfg BootstrapConfig, logger *slog.Logger) (accounts.EnsureResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	res, account, err := ensurer.EnsureAccount(ctx, accounts.NewAccount{
		Username: cfg.Username,
		Email:    cfg.Email,
		Password: cfg.Password,
		Role:     rbac.RoleAdmin,
	})
	if err != nil {
		return 0, fmt.Errorf("auth: bootstrap admin: %w", err)
	}
	switch res {
	case accounts.Created:
		logger.Info("bootstrap admin created", slog.String("username", account.Username))
	case accounts.AlreadyExists:
		logger.Info("bootstrap admin already present", slog.String("username", account.Username))
	}
	return res, nil
}
