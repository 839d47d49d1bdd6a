package accounts

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]Account)}
}

// Insert adds a, failing with ErrDuplicateIdentity when the username exists.
func (s *MemoryStore) Insert(_ context.Context, a Account) error {
	key := FoldUsername(a.Username)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[key]; exists {
		return ErrDuplicateIdentity
	}
	s.accounts[key] = cloneAccount(a)
	return nil
}

// FindByUsername returns the account for username.
func (s *MemoryStore) FindByUsername(_ context.Context, username string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[FoldUsername(username)]
	if !ok {
		return Account{}, ErrNotFound
	}
	return cloneAccount(a), nil
}

// Update replaces an existing account.
func (s *MemoryStore) Update(_ context.Context, a Account) error {
	key := FoldUsername(a.Username)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[key]; !ok {
		return ErrNotFound
	}
	s.accounts[key] = cloneAccount(a)
	return nil
}

// List returns all accounts ordered by username.
func (s *MemoryStore) List(_ context.Context) ([]Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, cloneAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func cloneAccount(a Account) Account {
	if a.LastLogin != nil {
		t := *a.LastLogin
		a.LastLogin = &t
	}
	return a
}

var _ Store = (*MemoryStore)(nil)
