package finance

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepository keeps finance records in process.
type MemoryRepository struct {
	mu        sync.RWMutex
	suppliers map[string]Supplier
	expenses  map[string]Expense
	income    map[string]Income
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		suppliers: make(map[string]Supplier),
		expenses:  make(map[string]Expense),
		income:    make(map[string]Income),
	}
}

func (r *MemoryRepository) CreateSupplier(_ context.Context, s Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.suppliers {
		if strings.EqualFold(other.Name, s.Name) {
			return ErrDuplicateSupplier
		}
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *MemoryRepository) GetSupplier(_ context.Context, id string) (Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.suppliers[id]
	if !ok {
		return Supplier{}, ErrSupplierNotFound
	}
	return s, nil
}

func (r *MemoryRepository) ListSuppliers(_ context.Context) ([]Supplier, error) {
	r.mu.RLock()
	out := make([]Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) CreateExpense(_ context.Context, e Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.SupplierID != "" {
		if _, ok := r.suppliers[e.SupplierID]; !ok {
			return ErrSupplierNotFound
		}
	}
	r.expenses[e.ID] = e
	return nil
}

func (f Filter) match(date, category string) bool {
	if f.From != "" && date < f.From {
		return false
	}
	if f.To != "" && date > f.To {
		return false
	}
	return f.Category == "" || strings.EqualFold(f.Category, category)
}

func (r *MemoryRepository) ListExpenses(_ context.Context, f Filter) ([]Expense, error) {
	r.mu.RLock()
	out := make([]Expense, 0, len(r.expenses))
	for _, e := range r.expenses {
		if f.match(e.Date, e.Category) {
			out = append(out, e)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Date > out[j].Date
	})
	return out, nil
}

func (r *MemoryRepository) MarkExpensePaid(_ context.Context, id, paidOn string) (Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.expenses[id]
	if !ok {
		return Expense{}, ErrExpenseNotFound
	}
	e.Paid = true
	e.PaidOn = paidOn
	r.expenses[id] = e
	return e, nil
}

func (r *MemoryRepository) CreateIncome(_ context.Context, in Income) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.income[in.ID] = in
	return nil
}

func (r *MemoryRepository) ListIncome(_ context.Context, f Filter) ([]Income, error) {
	r.mu.RLock()
	out := make([]Income, 0, len(r.income))
	for _, in := range r.income {
		if f.match(in.Date, in.Category) {
			out = append(out, in)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Date > out[j].Date
	})
	return out, nil
}

func (r *MemoryRepository) MarkIncomeReceived(_ context.Context, id string) (Income, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.income[id]
	if !ok {
		return Income{}, ErrIncomeNotFound
	}
	in.Received = true
	r.income[id] = in
	return in, nil
}

var _ Repository = (*MemoryRepository)(nil)
