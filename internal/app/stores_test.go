package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrogest/agrogest/internal/accounts"
	"github.com/agrogest/agrogest/internal/farming"
	"github.com/agrogest/agrogest/internal/finance"
	"github.com/agrogest/agrogest/internal/machinery"
	"github.com/agrogest/agrogest/internal/production"
	"github.com/agrogest/agrogest/internal/staff"
)

func TestOpenBackendsMemory(t *testing.T) {
	b, err := OpenBackends(context.Background(), testConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(b.Close)

	assert.IsType(t, &accounts.MemoryStore{}, b.Accounts)
	assert.IsType(t, &farming.MemoryRepository{}, b.Farms)
	assert.IsType(t, &machinery.MemoryRepository{}, b.Machinery)
	assert.IsType(t, &staff.MemoryRepository{}, b.Staff)
	assert.IsType(t, &finance.MemoryRepository{}, b.Finance)
	assert.IsType(t, &production.MemoryRepository{}, b.Production)
	assert.Nil(t, b.Pool)
	assert.Nil(t, b.Redis)
}

func TestOpenBackendsRedisCredentials(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.CredentialStore = BackendRedis
	cfg.RedisAddr = mr.Addr()

	b, err := OpenBackends(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(b.Close)

	assert.IsType(t, &accounts.RedisStore{}, b.Accounts)
	require.NotNil(t, b.Redis)

	services, err := NewServices(cfg, b, nil, nil, nil)
	require.NoError(t, err)
	res, err := services.Bootstrap(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, accounts.Created, res)
	assert.True(t, mr.Exists("accounts:admin"))
}

func TestOpenBackendsRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.CredentialStore = BackendRedis
	cfg.RedisAddr = mr.Addr()
	mr.Close()

	_, err := OpenBackends(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, &Config{LogFormat: "json", LogLevel: "warn"}).Info("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, &Config{LogFormat: "json", LogLevel: "debug"}).Debug("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	newLogger(&buf, nil).Info("text")
	assert.Contains(t, buf.String(), "msg=text")
}
