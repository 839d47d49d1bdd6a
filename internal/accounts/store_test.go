package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrogest/agrogest/internal/rbac"
)

func storeBackends(t *testing.T) map[string]Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(client),
	}
}

func TestStoreContract(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
			a := Account{
				ID:           "0b6f1f0e-8a57-4d43-9a57-2f1f0e8a574d",
				Username:     "Alice",
				Email:        "alice@example.com",
				Role:         rbac.RoleManager,
				PasswordHash: "argon2id$v=19$m=1024,t=1,p=1$AAAA",
				Salt:         "00112233445566778899aabbccddeeff",
				CreatedAt:    created,
				Active:       true,
			}

			_, err := store.FindByUsername(ctx, "alice")
			require.ErrorIs(t, err, ErrNotFound)
			require.ErrorIs(t, store.Update(ctx, a), ErrNotFound)

			require.NoError(t, store.Insert(ctx, a))
			dup := a
			dup.Username = "ALICE"
			require.ErrorIs(t, store.Insert(ctx, dup), ErrDuplicateIdentity)

			got, err := store.FindByUsername(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, a.ID, got.ID)
			assert.Equal(t, "Alice", got.Username)
			assert.Equal(t, a.PasswordHash, got.PasswordHash)
			assert.Equal(t, a.Salt, got.Salt)
			assert.True(t, got.CreatedAt.Equal(created))

			login := created.Add(time.Hour)
			got.LastLogin = &login
			got.Active = false
			require.NoError(t, store.Update(ctx, got))

			again, err := store.FindByUsername(ctx, "ALICE")
			require.NoError(t, err)
			require.NotNil(t, again.LastLogin)
			assert.True(t, again.LastLogin.Equal(login))
			assert.False(t, again.Active)

			b := a
			b.ID = "1c7f2f1f-9b68-4e54-8b68-3f2f1f9b685e"
			b.Username = "bob"
			require.NoError(t, store.Insert(ctx, b))

			all, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "Alice", all[0].Username)
			assert.Equal(t, "bob", all[1].Username)
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	login := time.Now()
	require.NoError(t, store.Insert(ctx, Account{ID: "1", Username: "alice", LastLogin: &login}))

	got, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	*got.LastLogin = login.Add(time.Hour)

	again, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, again.LastLogin.Equal(login))
}

func TestRedisStoreLayout(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client)
	require.NoError(t, store.Insert(context.Background(), Account{ID: "1", Username: "Alice", PasswordHash: "h", Salt: "s"}))

	raw, err := mr.Get("accounts:alice")
	require.NoError(t, err)
	assert.Contains(t, raw, `"password_hash":"h"`)
	assert.Contains(t, raw, `"salt":"s"`)
	members, err := mr.Members("accounts:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"accounts:alice"}, members)
}

func TestRedisStoreKeepsIndexInStep(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client)
	ctx := context.Background()

	a := Account{ID: "1", Username: "alice", PasswordHash: "h", Salt: "s"}
	require.NoError(t, store.Insert(ctx, a))
	require.ErrorIs(t, store.Insert(ctx, Account{ID: "2", Username: "ALICE"}), ErrDuplicateIdentity)

	raw, err := mr.Get("accounts:alice")
	require.NoError(t, err)
	assert.Contains(t, raw, `"id":"1"`)

	_, err = mr.SRem("accounts:index", "accounts:alice")
	require.NoError(t, err)
	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	a.Active = true
	require.NoError(t, store.Update(ctx, a))
	all, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "alice", all[0].Username)
}
