package accounts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrogest/agrogest/internal/platform/httpx"
	"github.com/agrogest/agrogest/internal/rbac"
	"github.com/agrogest/agrogest/internal/tokens"
)

func newTestService(t *testing.T, store Store) (*Service, *tokens.Service) {
	t.Helper()
	issuer, err := tokens.NewService([]byte("accounts-test-secret"), time.Hour)
	require.NoError(t, err)
	return NewService(store, NewHasher(testParams), issuer), issuer
}

func seed(t *testing.T, svc *Service, username, password string, role rbac.Role) Account {
	t.Helper()
	a, err := svc.CreateAccount(context.Background(), NewAccount{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return a
}

func TestCreateAccountStoresSaltedDigest(t *testing.T) {
	store := NewMemoryStore()
	svc, _ := newTestService(t, store)

	a := seed(t, svc, "alice", "correct-horse", rbac.RoleManager)
	assert.NotEmpty(t, a.ID)
	assert.True(t, a.Active)
	assert.Nil(t, a.LastLogin)
	assert.NotContains(t, a.PasswordHash, "correct-horse")
	assert.NotEmpty(t, a.Salt)

	stored, err := store.FindByUsername(context.Background(), "ALICE")
	require.NoError(t, err)
	assert.Equal(t, a.PasswordHash, stored.PasswordHash)
	assert.True(t, svc.CheckPassword(stored, "correct-horse"))
}

func TestCreateAccountDuplicate(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryStore())
	seed(t, svc, "alice", "correct-horse", rbac.RoleManager)

	_, err := svc.CreateAccount(context.Background(), NewAccount{
		Username: "Alice", Email: "other@example.com", Password: "another-pass", Role: rbac.RoleViewer,
	})
	require.ErrorIs(t, err, ErrDuplicateIdentity)
	assert.True(t, errors.Is(err, httpx.ErrDuplicate))
}

func TestCreateAccountValidation(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryStore())
	cases := []NewAccount{
		{Username: "", Email: "a@example.com", Password: "password1", Role: rbac.RoleViewer},
		{Username: "bob", Email: "not-an-email", Password: "password1", Role: rbac.RoleViewer},
		{Username: "bob", Email: "b@example.com", Password: "short", Role: rbac.RoleViewer},
		{Username: "bob", Email: "b@example.com", Password: "password1", Role: "root"},
		{Username: "bob smith", Email: "b@example.com", Password: "password1", Role: rbac.RoleViewer},
	}
	for _, in := range cases {
		_, err := svc.CreateAccount(context.Background(), in)
		assert.ErrorIs(t, err, httpx.ErrValidation, "%+v", in)
	}
}

func TestSetPasswordRegeneratesSalt(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryStore())
	first := seed(t, svc, "alice", "same-password", rbac.RoleViewer)
	second := seed(t, svc, "bob", "same-password", rbac.RoleViewer)

	assert.NotEqual(t, first.Salt, second.Salt)
	assert.NotEqual(t, first.PasswordHash, second.PasswordHash)

	again := first
	require.NoError(t, svc.SetPassword(context.Background(), &again, "same-password"))
	assert.NotEqual(t, first.Salt, again.Salt)
	assert.NotEqual(t, first.PasswordHash, again.PasswordHash)
	assert.True(t, svc.CheckPassword(again, "same-password"))
	assert.False(t, svc.CheckPassword(again, "same-passwore"))
	assert.False(t, svc.CheckPassword(again, ""))
}

func TestAuthenticateSuccessUpdatesLastLogin(t *testing.T) {
	store := NewMemoryStore()
	svc, issuer := newTestService(t, store)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	seed(t, svc, "alice", "correct-horse", rbac.RoleAgronomist)

	a, tok, err := svc.Authenticate(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	require.NotNil(t, a.LastLogin)
	assert.Equal(t, fixed, *a.LastLogin)

	stored, err := store.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)
	assert.Equal(t, fixed, *stored.LastLogin)

	claims, err := issuer.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, string(rbac.RoleAgronomist), claims.Role)
	assert.Equal(t, a.ID, claims.AccountID)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryStore())
	seed(t, svc, "alice", "correct-horse", rbac.RoleViewer)
	inactive := seed(t, svc, "carol", "correct-horse", rbac.RoleViewer)
	_, err := svc.Deactivate(context.Background(), inactive.Username)
	require.NoError(t, err)

	_, _, unknownErr := svc.Authenticate(context.Background(), "mallory", "correct-horse")
	_, _, wrongErr := svc.Authenticate(context.Background(), "alice", "wrong-horse")
	_, _, inactiveErr := svc.Authenticate(context.Background(), "carol", "correct-horse")
	_, _, emptyErr := svc.Authenticate(context.Background(), "", "")

	for _, err := range []error{unknownErr, wrongErr, inactiveErr, emptyErr} {
		require.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, unknownErr.Error(), err.Error())
	}
}

type failingStore struct{ *MemoryStore }

func (failingStore) FindByUsername(context.Context, string) (Account, error) {
	return Account{}, errors.New("connection refused")
}

func TestAuthenticateStoreErrorIsNotCredentialFailure(t *testing.T) {
	svc, _ := newTestService(t, failingStore{NewMemoryStore()})
	_, _, err := svc.Authenticate(context.Background(), "alice", "whatever")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 500, httpx.Status(err))
}

func TestEnsureAccountIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryStore())
	in := NewAccount{Username: "admin", Email: "admin@example.com", Password: "admin123", Role: rbac.RoleAdmin}

	res, first, err := svc.EnsureAccount(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, Created, res)

	in.Password = "different-pass"
	res, second, err := svc.EnsureAccount(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, AlreadyExists, res)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, svc.CheckPassword(second, "admin123"))
}

func TestChangeAndResetPassword(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryStore())
	seed(t, svc, "alice", "first-pass", rbac.RoleViewer)
	ctx := context.Background()

	require.ErrorIs(t, svc.ChangePassword(ctx, "alice", "wrong-pass", "second-pass"), ErrInvalidCredentials)
	require.ErrorIs(t, svc.ChangePassword(ctx, "alice", "first-pass", "short"), httpx.ErrValidation)
	require.NoError(t, svc.ChangePassword(ctx, "alice", "first-pass", "second-pass"))

	_, _, err := svc.Authenticate(ctx, "alice", "first-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Authenticate(ctx, "alice", "second-pass")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, "alice", "third-pass"))
	_, _, err = svc.Authenticate(ctx, "alice", "third-pass")
	require.NoError(t, err)

	require.ErrorIs(t, svc.ResetPassword(ctx, "nobody", "third-pass"), ErrNotFound)
}

func TestResetPasswordRefusesInactiveAccount(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryStore())
	seed(t, svc, "carol", "first-pass", rbac.RoleViewer)
	ctx := context.Background()

	_, err := svc.Deactivate(ctx, "carol")
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, "carol", "second-pass")
	require.ErrorIs(t, err, ErrAccountInactive)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	a, err := svc.Get(ctx, "carol")
	require.NoError(t, err)
	assert.True(t, svc.CheckPassword(a, "first-pass"))
}

func TestConcurrentAuthenticateKeepsRecord(t *testing.T) {
	store := NewMemoryStore()
	svc, _ := newTestService(t, store)
	seed(t, svc, "alice", "correct-horse", rbac.RoleViewer)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Authenticate(context.Background(), "alice", "correct-horse")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := store.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
	assert.True(t, svc.CheckPassword(stored, "correct-horse"))
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	svc, _ := newTestService(t, NewMemoryStore())
	in := NewAccount{Username: "racer", Email: "racer@example.com", Password: "password1", Role: rbac.RoleViewer}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, _, err := svc.EnsureAccount(context.Background(), in)
			assert.NoError(t, err)
			if res == Created {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	unlock := k.Lock("a")
	unlockB := k.Lock("b")
	unlock()
	unlockB()
	assert.Empty(t, k.locks)
}
