package machinery

import (
	"time"

	"github.com/agrogest/agrogest/internal/platform/httpx"
)

var ErrMachineNotFound = httpx.NewError(httpx.ErrNotFound, "machine not found")

// Machine statuses.
const (
	StatusActive      = "active"
	StatusMaintenance = "maintenance"
	StatusInactive    = "inactive"
)

// Machine is a tractor, implement or vehicle owned by the farm. Money is
// kept in cents.
type Machine struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Model                 string    `json:"model"`
	Year                  int       `json:"year,omitempty"`
	AcquisitionValueCents int64     `json:"acquisition_value_cents"`
	AcquisitionDate       string    `json:"acquisition_date,omitempty"`
	Status                string    `json:"status"`
	Notes                 string    `json:"notes"`
	CreatedAt             time.Time `json:"created_at"`
}

// MaintenanceRecord logs one service performed on a machine.
type MaintenanceRecord struct {
	ID          string    `json:"id"`
	MachineID   string    `json:"machine_id"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	CostCents   int64     `json:"cost_cents"`
	Responsible string    `json:"responsible"`
	CreatedAt   time.Time `json:"created_at"`
}
