package machinery

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrogest/agrogest/internal/platform/httpx"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository())
}

func TestMachineLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tractor, err := svc.CreateMachine(ctx, CreateMachineInput{
		Name:                  " Tractor ",
		Model:                 "MF 4275",
		Year:                  2015,
		AcquisitionValueCents: 12_500_000,
		AcquisitionDate:       "2015-03-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "Tractor", tractor.Name)
	assert.Equal(t, StatusActive, tractor.Status)

	_, err = svc.CreateMachine(ctx, CreateMachineInput{Name: "Sprayer", Status: StatusInactive})
	require.NoError(t, err)

	all, err := svc.ListMachines(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Sprayer", all[0].Name)

	updated, err := svc.UpdateMachineStatus(ctx, tractor.ID, UpdateMachineStatusInput{Status: StatusMaintenance})
	require.NoError(t, err)
	assert.Equal(t, StatusMaintenance, updated.Status)

	inShop, err := svc.ListMachines(ctx, StatusMaintenance)
	require.NoError(t, err)
	require.Len(t, inShop, 1)
	assert.Equal(t, tractor.ID, inShop[0].ID)

	_, err = svc.ListMachines(ctx, "broken")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestMaintenanceHistory(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	m, err := svc.CreateMachine(ctx, CreateMachineInput{Name: "Harvester"})
	require.NoError(t, err)

	_, err = svc.LogMaintenance(ctx, CreateMaintenanceInput{MachineID: m.ID, Date: "2024-01-10", Description: "oil change", CostCents: 45_000})
	require.NoError(t, err)
	_, err = svc.LogMaintenance(ctx, CreateMaintenanceInput{MachineID: m.ID, Date: "2024-03-02", Description: "belt", CostCents: 30_000})
	require.NoError(t, err)

	records, total, err := svc.MaintenanceHistory(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-03-02", records[0].Date)
	assert.Equal(t, int64(75_000), total)

	_, err = svc.LogMaintenance(ctx, CreateMaintenanceInput{MachineID: uuid.NewString(), Date: "2024-01-10", Description: "x"})
	assert.ErrorIs(t, err, ErrMachineNotFound)
	_, err = svc.LogMaintenance(ctx, CreateMaintenanceInput{MachineID: "nope", Date: "2024-01-10", Description: "x"})
	assert.ErrorIs(t, err, ErrMachineNotFound)
	_, err = svc.LogMaintenance(ctx, CreateMaintenanceInput{MachineID: m.ID, Date: "10/01/2024", Description: "x"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	_, err = svc.LogMaintenance(ctx, CreateMaintenanceInput{MachineID: m.ID, Date: "2024-01-10", Description: "x", CostCents: -1})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, _, err = svc.MaintenanceHistory(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrMachineNotFound)
}

func TestCreateMachineValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateMachine(ctx, CreateMachineInput{Name: "   "})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	_, err = svc.CreateMachine(ctx, CreateMachineInput{Name: "x", Status: "broken"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	_, err = svc.CreateMachine(ctx, CreateMachineInput{Name: "x", Year: 1800})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	_, err = svc.GetMachine(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrMachineNotFound)
}
