// Package machinery tracks farm machines and their maintenance history.
package machinery

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/agrogest/agrogest/internal/platform/httpx"
)

type Service struct {
	repo      Repository
	validator *validator.Validate
	now       func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validator: httpx.NewValidator(), now: time.Now}
}

func (s *Service) validate(in any) error {
	if err := s.validator.Struct(in); err != nil {
		return httpx.ValidationError(err)
	}
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// CreateMachine registers a machine. Status defaults to active.
func (s *Service) CreateMachine(ctx context.Context, in CreateMachineInput) (Machine, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Model = strings.TrimSpace(in.Model)
	if err := s.validate(in); err != nil {
		return Machine{}, err
	}
	if in.Status == "" {
		in.Status = StatusActive
	}
	m := Machine{
		ID:                    uuid.NewString(),
		Name:                  in.Name,
		Model:                 in.Model,
		Year:                  in.Year,
		AcquisitionValueCents: in.AcquisitionValueCents,
		AcquisitionDate:       in.AcquisitionDate,
		Status:                in.Status,
		Notes:                 strings.TrimSpace(in.Notes),
		CreatedAt:             s.now().UTC(),
	}
	if err := s.repo.CreateMachine(ctx, m); err != nil {
		return Machine{}, err
	}
	return m, nil
}

func (s *Service) GetMachine(ctx context.Context, id string) (Machine, error) {
	if !validID(id) {
		return Machine{}, ErrMachineNotFound
	}
	return s.repo.GetMachine(ctx, id)
}

// ListMachines lists machines, optionally only those in status.
func (s *Service) ListMachines(ctx context.Context, status string) ([]Machine, error) {
	switch status {
	case "", StatusActive, StatusMaintenance, StatusInactive:
	default:
		return nil, httpx.NewError(httpx.ErrValidation, "status must be one of [active maintenance inactive]")
	}
	return s.repo.ListMachines(ctx, status)
}

func (s *Service) UpdateMachineStatus(ctx context.Context, id string, in UpdateMachineStatusInput) (Machine, error) {
	if err := s.validate(in); err != nil {
		return Machine{}, err
	}
	if !validID(id) {
		return Machine{}, ErrMachineNotFound
	}
	return s.repo.UpdateMachineStatus(ctx, id, in.Status)
}

// LogMaintenance appends a maintenance record to an existing machine.
func (s *Service) LogMaintenance(ctx context.Context, in CreateMaintenanceInput) (MaintenanceRecord, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Responsible = strings.TrimSpace(in.Responsible)
	if err := s.validate(in); err != nil {
		return MaintenanceRecord{}, err
	}
	if !validID(in.MachineID) {
		return MaintenanceRecord{}, ErrMachineNotFound
	}
	rec := MaintenanceRecord{
		ID:          uuid.NewString(),
		MachineID:   in.MachineID,
		Date:        in.Date,
		Description: in.Description,
		CostCents:   in.CostCents,
		Responsible: in.Responsible,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.CreateMaintenance(ctx, rec); err != nil {
		return MaintenanceRecord{}, err
	}
	return rec, nil
}

// MaintenanceHistory returns a machine's records, newest first, and their
// summed cost.
func (s *Service) MaintenanceHistory(ctx context.Context, machineID string) ([]MaintenanceRecord, int64, error) {
	if _, err := s.GetMachine(ctx, machineID); err != nil {
		return nil, 0, err
	}
	records, err := s.repo.ListMaintenance(ctx, machineID)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	for _, rec := range records {
		total += rec.CostCents
	}
	return records, total, nil
}
