package staff

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps employees in process.
type MemoryRepository struct {
	mu        sync.RWMutex
	employees map[string]Employee
	payments  map[string][]Payment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		employees: make(map[string]Employee),
		payments:  make(map[string][]Payment),
	}
}

func (r *MemoryRepository) CreateEmployee(_ context.Context, e Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.CPF != "" {
		for _, other := range r.employees {
			if other.CPF == e.CPF {
				return ErrDuplicateCPF
			}
		}
	}
	r.employees[e.ID] = e
	return nil
}

func (r *MemoryRepository) GetEmployee(_ context.Context, id string) (Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.employees[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, nil
}

func (r *MemoryRepository) ListEmployees(_ context.Context, activeOnly bool) ([]Employee, error) {
	r.mu.RLock()
	out := make([]Employee, 0, len(r.employees))
	for _, e := range r.employees {
		if !activeOnly || e.Active {
			out = append(out, e)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryRepository) SetEmployeeActive(_ context.Context, id string, active bool) (Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	e.Active = active
	r.employees[id] = e
	return e, nil
}

func (r *MemoryRepository) CreatePayment(_ context.Context, p Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[p.EmployeeID]; !ok {
		return ErrEmployeeNotFound
	}
	r.payments[p.EmployeeID] = append(r.payments[p.EmployeeID], p)
	return nil
}

func (r *MemoryRepository) ListPayments(_ context.Context, employeeID string) ([]Payment, error) {
	r.mu.RLock()
	out := append([]Payment(nil), r.payments[employeeID]...)
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

var _ Repository = (*MemoryRepository)(nil)
