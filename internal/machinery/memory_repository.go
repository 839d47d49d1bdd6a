package machinery

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps machines in process.
type MemoryRepository struct {
	mu          sync.RWMutex
	machines    map[string]Machine
	maintenance map[string][]MaintenanceRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		machines:    make(map[string]Machine),
		maintenance: make(map[string][]MaintenanceRecord),
	}
}

func (r *MemoryRepository) CreateMachine(_ context.Context, m Machine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.machines[m.ID] = m
	return nil
}

func (r *MemoryRepository) GetMachine(_ context.Context, id string) (Machine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.machines[id]
	if !ok {
		return Machine{}, ErrMachineNotFound
	}
	return m, nil
}

func (r *MemoryRepository) ListMachines(_ context.Context, status string) ([]Machine, error) {
	r.mu.RLock()
	out := make([]Machine, 0, len(r.machines))
	for _, m := range r.machines {
		if status == "" || m.Status == status {
			out = append(out, m)
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

func (r *MemoryRepository) UpdateMachineStatus(_ context.Context, id, status string) (Machine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.machines[id]
	if !ok {
		return Machine{}, ErrMachineNotFound
	}
	m.Status = status
	r.machines[id] = m
	return m, nil
}

func (r *MemoryRepository) CreateMaintenance(_ context.Context, rec MaintenanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.machines[rec.MachineID]; !ok {
		return ErrMachineNotFound
	}
	r.maintenance[rec.MachineID] = append(r.maintenance[rec.MachineID], rec)
	return nil
}

func (r *MemoryRepository) ListMaintenance(_ context.Context, machineID string) ([]MaintenanceRecord, error) {
	r.mu.RLock()
	out := append([]MaintenanceRecord(nil), r.maintenance[machineID]...)
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

var _ Repository = (*MemoryRepository)(nil)
