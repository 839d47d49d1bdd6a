package staff

import (
	"time"

	"github.com/agrogest/agrogest/internal/platform/httpx"
)

var (
	ErrEmployeeNotFound = httpx.NewError(httpx.ErrNotFound, "employee not found")
	ErrDuplicateCPF     = httpx.NewError(httpx.ErrDuplicate, "cpf already registered")
	ErrEmployeeInactive = httpx.NewError(httpx.ErrValidation, "employee is inactive")
)

// Payment kinds.
const (
	PaymentSalary  = "salary"
	PaymentAdvance = "advance"
	PaymentBonus   = "bonus"
)

// Employee is a farm worker. CPF holds the 11 digits of the Brazilian
// taxpayer id, or is empty when unknown.
type Employee struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CPF         string    `json:"cpf,omitempty"`
	Position    string    `json:"position"`
	HireDate    string    `json:"hire_date,omitempty"`
	SalaryCents int64     `json:"salary_cents"`
	Active      bool      `json:"active"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}

type Payment struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employee_id"`
	Date        string    `json:"date"`
	AmountCents int64     `json:"amount_cents"`
	Kind        string    `json:"kind"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}
