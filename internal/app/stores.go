package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/agrogest/agrogest/internal/accounts"
	"github.com/agrogest/agrogest/internal/farming"
	"github.com/agrogest/agrogest/internal/finance"
	"github.com/agrogest/agrogest/internal/machinery"
	"github.com/agrogest/agrogest/internal/platform/cache"
	"github.com/agrogest/agrogest/internal/platform/db"
	"github.com/agrogest/agrogest/internal/production"
	"github.com/agrogest/agrogest/internal/staff"
)

// Backends holds the storage selected by configuration and the connections
// behind it.
type Backends struct {
	Accounts   accounts.Store
	Farms      farming.Repository
	Machinery  machinery.Repository
	Staff      staff.Repository
	Finance    finance.Repository
	Production production.Repository
	Pool       *pgxpool.Pool
	Redis      *redis.Client
}

// Migrator applies schema migrations. It is a variable so tests can stub it.
var Migrator = db.Migrate

// OpenBackends connects the stores named by cfg. Connections are only opened
// for backends that are actually selected.
func OpenBackends(ctx context.Context, cfg *Config, logger *slog.Logger) (*Backends, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backends{}

	if cfg.UsesPostgres() {
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			return nil, err
		}
		b.Pool = pool
		if cfg.AutoMigrate {
			if err := Migrator(ctx, pool); err != nil {
				b.Close()
				return nil, err
			}
			logger.Info("database migrations applied")
		}
	}
	if cfg.UsesRedis() {
		client, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Redis = client
	}

	switch cfg.CredentialStore {
	case BackendMemory:
		b.Accounts = accounts.NewMemoryStore()
	case BackendPostgres:
		b.Accounts = accounts.NewPostgresStore(b.Pool)
	case BackendRedis:
		b.Accounts = accounts.NewRedisStore(b.Redis)
	default:
		b.Close()
		return nil, fmt.Errorf("app: unknown credential store %q", cfg.CredentialStore)
	}

	// FARM_STORE selects the backend of every farm-domain package.
	switch cfg.FarmStore {
	case BackendMemory:
		b.Farms = farming.NewMemoryRepository()
		b.Machinery = machinery.NewMemoryRepository()
		b.Staff = staff.NewMemoryRepository()
		b.Finance = finance.NewMemoryRepository()
		b.Production = production.NewMemoryRepository()
	case BackendPostgres:
		b.Farms = farming.NewPGRepository(b.Pool)
		b.Machinery = machinery.NewPGRepository(b.Pool)
		b.Staff = staff.NewPGRepository(b.Pool)
		b.Finance = finance.NewPGRepository(b.Pool)
		b.Production = production.NewPGRepository(b.Pool)
	default:
		b.Close()
		return nil, fmt.Errorf("app: unknown farm store %q", cfg.FarmStore)
	}

	logger.Info("storage ready",
		slog.String("credential_store", cfg.CredentialStore),
		slog.String("farm_store", cfg.FarmStore))
	return b, nil
}

// Close releases every open connection.
func (b *Backends) Close() {
	if b == nil {
		return
	}
	if b.Redis != nil {
		_ = b.Redis.Close()
	}
	if b.Pool != nil {
		b.Pool.Close()
	}
}
