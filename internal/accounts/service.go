package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/agrogest/agrogest/internal/platform/httpx"
	"github.com/agrogest/agrogest/internal/tokens"
)

// TokenIssuer mints session tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(sub tokens.Subject) (tokens.Token, error)
}

// Service implements the credential store operations on top of a Store.
type Service struct {
	store     Store
	hasher    *Hasher
	issuer    TokenIssuer
	validator *validator.Validate
	locks     *keyedMutex
	now       func() time.Time

	// dummyHash and dummySalt are compared against for unknown usernames so
	// that both rejection paths do the same work.
	dummyHash string
	dummySalt string
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a Service.
func NewService(store Store, hasher *Hasher, issuer TokenIssuer, opts ...Option) *Service {
	if hasher == nil {
		hasher = NewHasher(DefaultParams())
	}
	s := &Service{
		store:     store,
		hasher:    hasher,
		issuer:    issuer,
		validator: httpx.NewValidator(),
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dummySalt = strings.Repeat("0", 2*saltBytes)
	s.dummyHash = hasher.Digest(uuid.NewString(), s.dummySalt)
	return s
}

// CreateAccount validates in, salts and digests the password, and stores a
// new active account.
func (s *Service) CreateAccount(ctx context.Context, in NewAccount) (Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validateNew(in); err != nil {
		return Account{}, err
	}

	unlock := s.locks.Lock(FoldUsername(in.Username))
	defer unlock()

	return s.create(ctx, in)
}

func (s *Service) create(ctx context.Context, in NewAccount) (Account, error) {
	a := Account{
		ID:        uuid.NewString(),
		Username:  in.Username,
		Email:     in.Email,
		Role:      in.Role,
		CreatedAt: s.now().UTC(),
		Active:    true,
	}
	if err := s.SetPassword(ctx, &a, in.Password); err != nil {
		return Account{}, err
	}
	if err := s.store.Insert(ctx, a); err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			return Account{}, ErrDuplicateIdentity
		}
		return Account{}, fmt.Errorf("accounts: create %q: %w", in.Username, err)
	}
	return a, nil
}

// EnsureAccount creates the account unless one with the same username
// already exists, reporting which happened.
func (s *Service) EnsureAccount(ctx context.Context, in NewAccount) (EnsureResult, Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validateNew(in); err != nil {
		return 0, Account{}, err
	}

	unlock := s.locks.Lock(FoldUsername(in.Username))
	defer unlock()

	existing, err := s.store.FindByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return AlreadyExists, existing, nil
	case !errors.Is(err, ErrNotFound):
		return 0, Account{}, fmt.Errorf("accounts: ensure %q: %w", in.Username, err)
	}

	a, err := s.create(ctx, in)
	if errors.Is(err, ErrDuplicateIdentity) {
		// Another process created it between the lookup and the insert.
		existing, findErr := s.store.FindByUsername(ctx, in.Username)
		if findErr != nil {
			return 0, Account{}, fmt.Errorf("accounts: ensure %q: %w", in.Username, findErr)
		}
		return AlreadyExists, existing, nil
	}
	if err != nil {
		return 0, Account{}, err
	}
	return Created, a, nil
}

// SetPassword generates a fresh salt and recomputes the digest on a. It does
// not persist a.
func (s *Service) SetPassword(_ context.Context, a *Account, password string) error {
	if a == nil {
		return errors.New("accounts: nil account")
	}
	salt, err := s.hasher.NewSalt()
	if err != nil {
		return err
	}
	a.Salt = salt
	a.PasswordHash = s.hasher.Digest(password, salt)
	return nil
}

// CheckPassword reports whether password matches the digest stored on a.
func (s *Service) CheckPassword(a Account, password string) bool {
	ok, err := s.hasher.Compare(a.PasswordHash, password, a.Salt)
	return err == nil && ok
}

// Authenticate verifies the credentials, records the login and returns a
// fresh session token. Unknown usernames, wrong passwords and inactive
// accounts all yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Account, tokens.Token, error) {
	if s.issuer == nil {
		return Account{}, tokens.Token{}, errors.New("accounts: token issuer not configured")
	}
	key := FoldUsername(username)
	if key == "" {
		s.burnDummy(password)
		return Account{}, tokens.Token{}, ErrInvalidCredentials
	}

	unlock := s.locks.Lock(key)
	defer unlock()

	a, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.burnDummy(password)
			return Account{}, tokens.Token{}, ErrInvalidCredentials
		}
		return Account{}, tokens.Token{}, fmt.Errorf("accounts: authenticate: %w", err)
	}
	if !s.CheckPassword(a, password) || !a.Active {
		return Account{}, tokens.Token{}, ErrInvalidCredentials
	}

	tok, err := s.issuer.Issue(tokens.Subject{AccountID: a.ID, Username: a.Username, Role: string(a.Role)})
	if err != nil {
		return Account{}, tokens.Token{}, fmt.Errorf("accounts: issue token: %w", err)
	}

	now := s.now().UTC()
	a.LastLogin = &now
	if err := s.store.Update(ctx, a); err != nil {
		return Account{}, tokens.Token{}, fmt.Errorf("accounts: record login: %w", err)
	}
	return a, tok, nil
}

func (s *Service) burnDummy(password string) {
	_, _ = s.hasher.Compare(s.dummyHash, password, s.dummySalt)
}

// ChangePassword verifies the current password before replacing it.
func (s *Service) ChangePassword(ctx context.Context, username, current, next string) error {
	if err := s.validatePassword(next); err != nil {
		return err
	}
	unlock := s.locks.Lock(FoldUsername(username))
	defer unlock()

	a, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("accounts: change password: %w", err)
	}
	if !a.Active || !s.CheckPassword(a, current) {
		return ErrInvalidCredentials
	}
	return s.storePassword(ctx, a, next)
}

// ResetPassword replaces the password without checking the old one.
// Deactivated accounts are refused with ErrAccountInactive.
func (s *Service) ResetPassword(ctx context.Context, username, password string) error {
	if err := s.validatePassword(password); err != nil {
		return err
	}
	unlock := s.locks.Lock(FoldUsername(username))
	defer unlock()

	a, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !a.Active {
		return ErrAccountInactive
	}
	return s.storePassword(ctx, a, password)
}

func (s *Service) storePassword(ctx context.Context, a Account, password string) error {
	if err := s.SetPassword(ctx, &a, password); err != nil {
		return err
	}
	if err := s.store.Update(ctx, a); err != nil {
		return fmt.Errorf("accounts: store password: %w", err)
	}
	return nil
}

// Deactivate clears the active flag. Deactivating twice is not an error.
func (s *Service) Deactivate(ctx context.Context, username string) (Account, error) {
	unlock := s.locks.Lock(FoldUsername(username))
	defer unlock()

	a, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return Account{}, err
	}
	if !a.Active {
		return a, nil
	}
	a.Active = false
	if err := s.store.Update(ctx, a); err != nil {
		return Account{}, fmt.Errorf("accounts: deactivate: %w", err)
	}
	return a, nil
}

// Get returns the account for username.
func (s *Service) Get(ctx context.Context, username string) (Account, error) {
	return s.store.FindByUsername(ctx, username)
}

// List returns every account.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.store.List(ctx)
}

func (s *Service) validateNew(in NewAccount) error {
	if err := s.validator.Struct(in); err != nil {
		return httpx.ValidationError(err)
	}
	if strings.IndexFunc(in.Username, unicode.IsSpace) >= 0 {
		return httpx.NewError(httpx.ErrValidation, "username must not contain whitespace")
	}
	return nil
}

func (s *Service) validatePassword(password string) error {
	if err := s.validator.Var(password, "required,min=8,max=128"); err != nil {
		return httpx.NewError(httpx.ErrValidation, "password must be between 8 and 128 characters")
	}
	return nil
}

// keyedMutex serializes work per key. Entries are reference counted and
// dropped once no goroutine holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock acquires the lock for key and returns its release func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
