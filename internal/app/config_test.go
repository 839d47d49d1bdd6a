package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.CredentialStore)
	assert.Equal(t, BackendMemory, cfg.FarmStore)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "admin123", cfg.AdminPassword)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.False(t, cfg.UsesPostgres())
	assert.False(t, cfg.UsesRedis())
	assert.Equal(t, uint32(65536), cfg.HashParams().Memory)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("JWT_EXPIRATION_DAYS", "7")
	t.Setenv("CREDENTIAL_STORE", "redis")
	t.Setenv("FARM_STORE", "postgres")
	t.Setenv("AUDIT_ENABLED", "true")
	t.Setenv("PASSWORD_HASH_PARALLELISM", "4")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL())
	assert.True(t, cfg.UsesPostgres())
	assert.True(t, cfg.UsesRedis())
	assert.Equal(t, uint8(4), cfg.HashParams().Parallelism)
	assert.Equal(t, cfg.RedisAddr, cfg.RedisClientOpt().Addr)
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			JWTSecret:         "secret",
			JWTExpirationDays: 1,
			CredentialStore:   BackendMemory,
			FarmStore:         BackendMemory,
		}
	}
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"unknown credential store", func(c *Config) { c.CredentialStore = "sqlite" }, false},
		{"redis farm store", func(c *Config) { c.FarmStore = BackendRedis }, false},
		{"zero expiry", func(c *Config) { c.JWTExpirationDays = 0 }, false},
		{"max expiry", func(c *Config) { c.JWTExpirationDays = MaxJWTExpirationDays }, true},
		{"expiry past a year", func(c *Config) { c.JWTExpirationDays = MaxJWTExpirationDays + 1 }, false},
		{"expiry overflowing duration", func(c *Config) { c.JWTExpirationDays = 200000 }, false},
		{"short production secret", func(c *Config) { c.AppEnv = "production" }, false},
		{"postgres without dsn", func(c *Config) { c.CredentialStore = BackendPostgres }, false},
		{"negative rate", func(c *Config) { c.LoginRateLimit = -1 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
