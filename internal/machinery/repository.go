package machinery

import "context"

// Repository persists machines and their maintenance log. Lookups of missing
// machines return ErrMachineNotFound.
type Repository interface {
	CreateMachine(ctx context.Context, m Machine) error
	GetMachine(ctx context.Context, id string) (Machine, error)
	// ListMachines returns every machine, or only those in status when it is set.
	ListMachines(ctx context.Context, status string) ([]Machine, error)
	UpdateMachineStatus(ctx context.Context, id, status string) (Machine, error)

	CreateMaintenance(ctx context.Context, rec MaintenanceRecord) error
	ListMaintenance(ctx context.Context, machineID string) ([]MaintenanceRecord, error)
}
