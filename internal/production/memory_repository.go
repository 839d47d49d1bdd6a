package production

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepository keeps production records in process.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]Record)}
}

func (r *MemoryRepository) Create(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = rec
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return rec, nil
}

func (r *MemoryRepository) List(_ context.Context, product string) ([]Record, error) {
	r.mu.RLock()
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		if product == "" || strings.EqualFold(rec.Product, product) {
			out = append(out, rec)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate == out[j].StartDate {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].StartDate > out[j].StartDate
	})
	return out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
