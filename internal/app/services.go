package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agrogest/agrogest/internal/accounts"
	"github.com/agrogest/agrogest/internal/auth"
	"github.com/agrogest/agrogest/internal/farming"
	"github.com/agrogest/agrogest/internal/finance"
	"github.com/agrogest/agrogest/internal/machinery"
	"github.com/agrogest/agrogest/internal/observability"
	"github.com/agrogest/agrogest/internal/production"
	"github.com/agrogest/agrogest/internal/rbac"
	"github.com/agrogest/agrogest/internal/shared"
	"github.com/agrogest/agrogest/internal/staff"
	"github.com/agrogest/agrogest/internal/tokens"
)

// Services is the wired application graph shared by the API server and tests.
type Services struct {
	Tokens   *tokens.Service
	Accounts *accounts.Service
	Farming  *farming.Service
	Gateway  *auth.Gateway
	Table    rbac.Table
	RBAC     rbac.Middleware

	AuthHandler        *auth.Handler
	AccountsHandler    *accounts.Handler
	PermissionsHandler *rbac.PermissionsHandler
	FarmingHandler     *farming.Handler
	MachineryHandler   *machinery.Handler
	StaffHandler       *staff.Handler
	FinanceHandler     *finance.Handler
	ProductionHandler  *production.Handler
}

// NewServices builds every service and handler on top of the given backends.
// A nil publisher drops audit events.
func NewServices(cfg *Config, b *Backends, logger *slog.Logger, metrics *observability.Metrics, publisher shared.AuditPublisher) (*Services, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = shared.NopAuditPublisher{}
	}

	tokenService, err := tokens.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL())
	if err != nil {
		return nil, fmt.Errorf("app: token service: %w", err)
	}
	accountService := accounts.NewService(b.Accounts, accounts.NewHasher(cfg.HashParams()), tokenService)
	farmService := farming.NewService(b.Farms)

	table := rbac.DefaultTable()
	rbacMiddleware := rbac.Middleware{Table: table, Logger: logger}

	gateway := auth.NewGateway(logger, accountService, tokenService,
		auth.WithAuditPublisher(publisher),
		auth.WithMetrics(metrics))

	return &Services{
		Tokens:   tokenService,
		Accounts: accountService,
		Farming:  farmService,
		Gateway:  gateway,
		Table:    table,
		RBAC:     rbacMiddleware,

		AuthHandler:        auth.NewHandler(logger, gateway, accountService, table, cfg.LoginRateLimit),
		AccountsHandler:    accounts.NewHandler(logger, accountService, publisher, rbacMiddleware),
		PermissionsHandler: rbac.NewPermissionsHandler(logger, table, rbacMiddleware),
		FarmingHandler:     farming.NewHandler(logger, farmService, rbacMiddleware),
		MachineryHandler:   machinery.NewHandler(logger, machinery.NewService(b.Machinery), rbacMiddleware),
		StaffHandler:       staff.NewHandler(logger, staff.NewService(b.Staff), rbacMiddleware),
		FinanceHandler:     finance.NewHandler(logger, finance.NewService(b.Finance), rbacMiddleware),
		ProductionHandler:  production.NewHandler(logger, production.NewService(b.Production), rbacMiddleware),
	}, nil
}

// Bootstrap ensures the configured administrator account exists.
func (s *Services) Bootstrap(ctx context.Context, cfg *Config, logger *slog.Logger) (accounts.EnsureResult, error) {
	return auth.Bootstrap(ctx, s.Accounts, auth.BootstrapConfig{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, logger)
}
